package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crspy2/alterabot/internal/domain"
	"github.com/crspy2/alterabot/pkg/logger"
)

type smsProvider interface {
	Services(ctx context.Context) ([]domain.Service, error)
	CreateOrder(ctx context.Context, service, country string) (*domain.Order, error)
	OrderStatus(ctx context.Context, orderID string) (*domain.VerificationStatus, error)
	Balance(ctx context.Context) (float64, error)
}

type orderRecorder interface {
	RecordOrder(ctx context.Context, order *domain.Order, accountID int64) error
}

// WorkflowService drives one rented-number transaction:
// validate input, price it, check the balance, purchase, then poll for the
// code on user request and settle the charge once it arrives. All durable
// state lives in the provider and the backend; two calls never share
// anything in-process.
type WorkflowService struct {
	provider smsProvider
	recorder orderRecorder
	pricing  *PricingService
	ledger   *LedgerService
}

func NewWorkflowService(provider smsProvider, recorder orderRecorder, pricing *PricingService, ledger *LedgerService) *WorkflowService {
	return &WorkflowService{
		provider: provider,
		recorder: recorder,
		pricing:  pricing,
		ledger:   ledger,
	}
}

// AcquireResult is the success payload of Acquire. Balance is the
// account's snapshot before any charge; nothing is spent until a code is
// delivered.
type AcquireResult struct {
	Order   *domain.Order
	Country domain.CountryPrice
	Charge  int64
	Balance int64
}

// CheckResult is the outcome of one user-triggered poll. Settled is true
// only after a delivered code has been charged; Balance is then the
// post-debit value.
type CheckResult struct {
	Order   *domain.Order
	Status  *domain.VerificationStatus
	Settled bool
	Balance int64
}

// Acquire rents a number for (service, country) on behalf of the account
// identified by externalID. Failures before the purchase cost nothing; a
// purchase that cannot be recorded is surfaced as ErrOrderRecordingFailed
// and deliberately not retried.
func (s *WorkflowService) Acquire(ctx context.Context, externalID, serviceName, countryQuery string) (*AcquireResult, error) {
	prices, err := s.pricing.Fetch(ctx, serviceName)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidService) {
			return nil, s.suggestServices(ctx, serviceName)
		}
		return nil, err
	}

	country := matchCountry(countryQuery, prices)
	if country == nil {
		return nil, &domain.CountryNotFoundError{
			Query:       countryQuery,
			Total:       len(prices),
			Suggestions: ResolveCountries(countryQuery, prices),
		}
	}

	account, err := s.ledger.Account(ctx, externalID)
	if err != nil {
		return nil, err
	}

	charge := s.ledger.ChargeAmount(MinorUnits(country.Price))
	if !CheckSufficient(account, charge) {
		return nil, fmt.Errorf("%w: balance %d, required %d", domain.ErrInsufficientFunds, account.Balance, charge)
	}

	order, err := s.provider.CreateOrder(ctx, serviceName, country.ISO)
	if err != nil {
		logger.Log.Warn("provider rejected order", logger.String("service", serviceName), logger.String("country", country.ISO), logger.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderOutOfStock, err)
	}

	order.Cost = s.ledger.ChargeAmount(order.Cost)

	if err := s.recorder.RecordOrder(ctx, order, account.ID); err != nil {
		// the number is purchased but untracked; surfaced once, never retried
		logger.Log.Error("purchased number could not be recorded",
			logger.String("order_id", order.OrderID),
			logger.Int64("account_id", account.ID),
			logger.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrOrderRecordingFailed, err)
	}

	return &AcquireResult{
		Order:   order,
		Country: *country,
		Charge:  charge,
		Balance: account.Balance,
	}, nil
}

// Check polls the account's most recent order. Pending statuses leave the
// order untouched; a delivered code triggers the single ledger debit; any
// other status means the number expired and nothing is charged.
func (s *WorkflowService) Check(ctx context.Context, externalID string) (*CheckResult, error) {
	account, err := s.ledger.Account(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if len(account.Orders) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoActiveOrder, externalID)
	}
	order := account.Orders[len(account.Orders)-1]

	if !CheckSufficient(account, order.Cost) {
		return nil, fmt.Errorf("%w: balance %d, required %d", domain.ErrInsufficientFunds, account.Balance, order.Cost)
	}

	status, err := s.provider.OrderStatus(ctx, order.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	result := &CheckResult{Order: &order, Status: status}

	if status.State == domain.StateDelivered {
		if err := s.ledger.Debit(ctx, account.ID, order.Cost); err != nil {
			return nil, err
		}
		result.Settled = true
		result.Balance = account.Balance - order.Cost
	}

	return result, nil
}

// SearchResult is the payload of SearchServices: how many services exist
// overall and which ones matched.
type SearchResult struct {
	Total   int
	Matches []domain.ServiceMatch
}

// SearchServices runs the fuzzy resolver against the live catalog. A
// query that is itself ineligible short-circuits to not-found before any
// remote call.
func (s *WorkflowService) SearchServices(ctx context.Context, query string) (*SearchResult, error) {
	if ServiceBlocked(query) {
		return nil, &domain.ServiceNotFoundError{Query: query}
	}

	services, err := s.provider.Services(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	matches := ResolveServices(query, services)
	if len(matches) == 0 {
		return nil, &domain.ServiceNotFoundError{Query: query, Total: len(services)}
	}

	return &SearchResult{Total: len(services), Matches: matches}, nil
}

// Prices returns the sorted country price table for a service, optionally
// narrowed to one country. An unknown service falls through to service
// suggestions like Acquire does.
func (s *WorkflowService) Prices(ctx context.Context, serviceName string, by domain.SortOrder, countryQuery string) ([]domain.CountryPrice, error) {
	prices, err := s.pricing.Fetch(ctx, serviceName)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidService) {
			return nil, s.suggestServices(ctx, serviceName)
		}
		return nil, err
	}

	if countryQuery != "" {
		country := matchCountry(countryQuery, prices)
		if country == nil {
			return nil, &domain.CountryNotFoundError{
				Query:       countryQuery,
				Total:       len(prices),
				Suggestions: ResolveCountries(countryQuery, prices),
			}
		}
		return []domain.CountryPrice{*country}, nil
	}

	return SortPrices(prices, by), nil
}

// ProviderBalance reports the operator's balance at the provider, in
// dollars.
func (s *WorkflowService) ProviderBalance(ctx context.Context) (float64, error) {
	balance, err := s.provider.Balance(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	return balance, nil
}

// suggestServices builds the ServiceNotFound exit for an input the price
// table rejected, attaching fuzzy candidates from the live catalog.
func (s *WorkflowService) suggestServices(ctx context.Context, query string) error {
	services, err := s.provider.Services(ctx)
	if err != nil || len(services) == 0 {
		logger.Log.Error("unable to obtain service list", logger.Error(err))
		return fmt.Errorf("%w: service list unavailable", domain.ErrProviderUnavailable)
	}

	return &domain.ServiceNotFoundError{
		Query:       query,
		Total:       len(services),
		Suggestions: ResolveServices(query, services),
	}
}

// matchCountry finds the exact entry for a query: short inputs are ISO
// codes, longer ones country names, both case-insensitive.
func matchCountry(query string, prices []domain.CountryPrice) *domain.CountryPrice {
	for i := range prices {
		if len(query) <= isoQueryMaxLen {
			if strings.EqualFold(prices[i].ISO, query) {
				return &prices[i]
			}
		} else if strings.EqualFold(prices[i].Name, query) {
			return &prices[i]
		}
	}

	return nil
}
