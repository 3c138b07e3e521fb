package domain

import (
	"errors"
	"fmt"
)

var (
	ErrServiceNotFound      = errors.New("service not found")
	ErrCountryNotFound      = errors.New("country not found")
	ErrInvalidService       = errors.New("invalid service")
	ErrAccountNotFound      = errors.New("account not found")
	ErrNoActiveOrder        = errors.New("no active order")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrProviderOutOfStock   = errors.New("provider out of stock")
	ErrProviderUnavailable  = errors.New("provider unavailable")
	ErrOrderRecordingFailed = errors.New("order recording failed")
	ErrLedgerWriteFailed    = errors.New("ledger write failed")
)

// ServiceNotFoundError carries the resolver's suggestions alongside the
// ErrServiceNotFound sentinel so callers can render alternatives.
type ServiceNotFoundError struct {
	Query       string
	Total       int
	Suggestions []ServiceMatch
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service not found: %s (%d suggestions)", e.Query, len(e.Suggestions))
}

func (e *ServiceNotFoundError) Unwrap() error {
	return ErrServiceNotFound
}

// CountryNotFoundError is the country-side counterpart; Total is the
// number of countries supporting the requested service.
type CountryNotFoundError struct {
	Query       string
	Total       int
	Suggestions []CountryMatch
}

func (e *CountryNotFoundError) Error() string {
	return fmt.Sprintf("country not found: %s (%d suggestions)", e.Query, len(e.Suggestions))
}

func (e *CountryNotFoundError) Unwrap() error {
	return ErrCountryNotFound
}
