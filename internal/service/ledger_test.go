package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crspy2/alterabot/internal/domain"
)

type stubAccountStore struct {
	account    *domain.UserAccount
	accountErr error
	debitErr   error
	setErr     error

	debits      []int64
	setBalances []int64
}

func (s *stubAccountStore) AccountByExternalID(_ context.Context, _ string) (*domain.UserAccount, error) {
	return s.account, s.accountErr
}

func (s *stubAccountStore) Debit(_ context.Context, _, amount int64) error {
	if s.debitErr != nil {
		return s.debitErr
	}
	s.debits = append(s.debits, amount)
	return nil
}

func (s *stubAccountStore) SetBalance(_ context.Context, _, newBalance int64) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.setBalances = append(s.setBalances, newBalance)
	return nil
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(50), MinorUnits(0.50))
	assert.Equal(t, int64(51), MinorUnits(0.505), "half rounds up")
	assert.Equal(t, int64(0), MinorUnits(0))
}

func TestChargeAmount(t *testing.T) {
	ledger := NewLedgerService(&stubAccountStore{}, 1.5)
	assert.Equal(t, int64(75), ledger.ChargeAmount(50))

	ledger = NewLedgerService(&stubAccountStore{}, 1.1)
	assert.Equal(t, int64(61), ledger.ChargeAmount(55), "60.5 rounds half-up")

	ledger = NewLedgerService(&stubAccountStore{}, 1.0)
	assert.Equal(t, int64(50), ledger.ChargeAmount(50))
}

func TestCheckSufficient(t *testing.T) {
	account := &domain.UserAccount{Balance: 500}

	assert.True(t, CheckSufficient(account, 499))
	assert.True(t, CheckSufficient(account, 500), "boundary is inclusive")
	assert.False(t, CheckSufficient(account, 501))
}

func TestLedgerDebit(t *testing.T) {
	store := &stubAccountStore{}
	ledger := NewLedgerService(store, 1.0)

	err := ledger.Debit(context.Background(), 7, 150)
	require.NoError(t, err)
	assert.Equal(t, []int64{150}, store.debits)
}

func TestLedgerDebit_InsufficientFundsPassesThrough(t *testing.T) {
	store := &stubAccountStore{debitErr: domain.ErrInsufficientFunds}
	ledger := NewLedgerService(store, 1.0)

	err := ledger.Debit(context.Background(), 7, 150)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.NotErrorIs(t, err, domain.ErrLedgerWriteFailed)
}

func TestLedgerDebit_WriteFailure(t *testing.T) {
	store := &stubAccountStore{debitErr: errors.New("backend down")}
	ledger := NewLedgerService(store, 1.0)

	err := ledger.Debit(context.Background(), 7, 150)
	assert.ErrorIs(t, err, domain.ErrLedgerWriteFailed)
}

func TestLedgerSetBalance(t *testing.T) {
	store := &stubAccountStore{}
	ledger := NewLedgerService(store, 1.0)

	require.NoError(t, ledger.SetBalance(context.Background(), 7, 1000))
	assert.Equal(t, []int64{1000}, store.setBalances)

	store.setErr = errors.New("backend down")
	assert.ErrorIs(t, ledger.SetBalance(context.Background(), 7, 1000), domain.ErrLedgerWriteFailed)
}
