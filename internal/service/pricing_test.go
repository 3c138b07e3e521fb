package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crspy2/alterabot/internal/domain"
)

type stubPriceLister struct {
	prices []domain.CountryPrice
	err    error
}

func (s *stubPriceLister) CountryPrices(_ context.Context, _ string) ([]domain.CountryPrice, error) {
	return s.prices, s.err
}

func TestPricingFetch(t *testing.T) {
	prices := []domain.CountryPrice{{Name: "United Kingdom", ISO: "gb", Price: 0.5}}
	pricing := NewPricingService(&stubPriceLister{prices: prices})

	got, err := pricing.Fetch(context.Background(), "telegram")
	require.NoError(t, err)
	assert.Equal(t, prices, got)
}

func TestPricingFetch_RemoteFailure(t *testing.T) {
	pricing := NewPricingService(&stubPriceLister{err: errors.New("connection refused")})

	_, err := pricing.Fetch(context.Background(), "telegram")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestPricingFetch_EmptyMeansUnknownService(t *testing.T) {
	pricing := NewPricingService(&stubPriceLister{})

	_, err := pricing.Fetch(context.Background(), "telegrm")
	assert.ErrorIs(t, err, domain.ErrInvalidService)
}

func TestSortPrices_ByPrice(t *testing.T) {
	prices := []domain.CountryPrice{
		{Name: "A", LowPrice: 0.50, SuccessRate: 80},
		{Name: "B", LowPrice: 0.30, SuccessRate: 70},
		{Name: "C", LowPrice: 0.30, SuccessRate: 95},
	}

	sorted := SortPrices(prices, domain.SortByPrice)

	require.Len(t, sorted, 3)
	assert.Equal(t, "C", sorted[0].Name, "price tie broken by higher success rate")
	assert.Equal(t, "B", sorted[1].Name)
	assert.Equal(t, "A", sorted[2].Name)

	// input order untouched
	assert.Equal(t, "A", prices[0].Name)
}

func TestSortPrices_BySuccessRate(t *testing.T) {
	prices := []domain.CountryPrice{
		{Name: "A", LowPrice: 0.50, SuccessRate: 90},
		{Name: "B", LowPrice: 0.30, SuccessRate: 90},
		{Name: "C", LowPrice: 0.10, SuccessRate: 60},
	}

	sorted := SortPrices(prices, domain.SortBySuccessRate)

	require.Len(t, sorted, 3)
	assert.Equal(t, "B", sorted[0].Name, "success-rate tie broken by lower price")
	assert.Equal(t, "A", sorted[1].Name)
	assert.Equal(t, "C", sorted[2].Name)
}

func TestSortPrices_TotalOrderOnFullTies(t *testing.T) {
	prices := []domain.CountryPrice{
		{Name: "X", LowPrice: 0.30, SuccessRate: 90},
		{Name: "Y", LowPrice: 0.30, SuccessRate: 90},
		{Name: "Z", LowPrice: 0.30, SuccessRate: 90},
	}

	sorted := SortPrices(prices, domain.SortByPrice)

	require.Len(t, sorted, 3)
	assert.True(t, sort.SliceIsSorted(sorted, func(i, j int) bool {
		return sorted[i].LowPrice < sorted[j].LowPrice
	}))
	// entries equal on both keys keep input order
	assert.Equal(t, []string{"X", "Y", "Z"}, []string{sorted[0].Name, sorted[1].Name, sorted[2].Name})
}
