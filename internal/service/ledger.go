package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/crspy2/alterabot/internal/domain"
	"github.com/crspy2/alterabot/pkg/logger"
)

type accountStore interface {
	AccountByExternalID(ctx context.Context, externalID string) (*domain.UserAccount, error)
	Debit(ctx context.Context, accountID, amount int64) error
	SetBalance(ctx context.Context, accountID, newBalance int64) error
}

// LedgerService guards the one rule of the money side: a user only rents
// what they can afford, and a delivered code is charged exactly once.
type LedgerService struct {
	backend    accountStore
	multiplier float64
}

func NewLedgerService(backend accountStore, multiplier float64) *LedgerService {
	return &LedgerService{
		backend:    backend,
		multiplier: multiplier,
	}
}

// MinorUnits converts a provider dollar price to integer cents.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// ChargeAmount applies the operator price multiplier to a base cost in
// minor units, rounding half-up. The multiplier exists only at charge and
// display time; it is never stored in catalogs or orders fetched from the
// provider.
func (s *LedgerService) ChargeAmount(base int64) int64 {
	return int64(math.Round(float64(base) * s.multiplier))
}

// CheckSufficient reports whether the balance covers the required amount.
// The boundary is inclusive: balance == required passes.
func CheckSufficient(account *domain.UserAccount, required int64) bool {
	return account.Balance >= required
}

func (s *LedgerService) Account(ctx context.Context, externalID string) (*domain.UserAccount, error) {
	return s.backend.AccountByExternalID(ctx, externalID)
}

// Debit charges the account by amount. The subtraction happens atomically
// on the backend, which fails the write server-side when the balance does
// not cover it; concurrent settlements therefore cannot drive a balance
// negative.
func (s *LedgerService) Debit(ctx context.Context, accountID, amount int64) error {
	err := s.backend.Debit(ctx, accountID, amount)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return err
		}
		logger.Log.Error("ledger debit failed", logger.Int64("account_id", accountID), logger.Int64("amount", amount), logger.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrLedgerWriteFailed, err)
	}

	return nil
}

// SetBalance replaces the balance outright. Operator tooling only; the
// verification workflow never calls it.
func (s *LedgerService) SetBalance(ctx context.Context, accountID, newBalance int64) error {
	err := s.backend.SetBalance(ctx, accountID, newBalance)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrLedgerWriteFailed, err)
	}

	return nil
}
