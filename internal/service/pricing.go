package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/crspy2/alterabot/internal/domain"
)

type priceLister interface {
	CountryPrices(ctx context.Context, service string) ([]domain.CountryPrice, error)
}

type PricingService struct {
	provider priceLister
}

func NewPricingService(provider priceLister) *PricingService {
	return &PricingService{
		provider: provider,
	}
}

// Fetch retrieves the country price table for a service. The provider
// answers an empty array both for unknown services and for services
// temporarily out of stock; empty is treated as unknown so callers can
// fall through to service suggestions.
func (s *PricingService) Fetch(ctx context.Context, service string) ([]domain.CountryPrice, error) {
	prices, err := s.provider.CountryPrices(ctx, service)
	if err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidService, service)
	}

	return prices, nil
}

// SortPrices returns a sorted copy. Price order is ascending low price
// with ties broken by descending success rate; success-rate order is the
// reverse pairing. Entries equal on both keys keep their input order.
func SortPrices(prices []domain.CountryPrice, by domain.SortOrder) []domain.CountryPrice {
	sorted := make([]domain.CountryPrice, len(prices))
	copy(sorted, prices)

	switch by {
	case domain.SortBySuccessRate:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].SuccessRate != sorted[j].SuccessRate {
				return sorted[i].SuccessRate > sorted[j].SuccessRate
			}
			return sorted[i].LowPrice < sorted[j].LowPrice
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].LowPrice != sorted[j].LowPrice {
				return sorted[i].LowPrice < sorted[j].LowPrice
			}
			return sorted[i].SuccessRate > sorted[j].SuccessRate
		})
	}

	return sorted
}
