package domain

import "time"

// Service is one entry of the provider's service catalog. The catalog is
// fetched fresh on every request, never cached.
type Service struct {
	ID   int64
	Name string
}

// CountryPrice is one row of a per-service country price table.
// LowPrice <= Price; SuccessRate is a percentage.
type CountryPrice struct {
	CountryID   int64
	Name        string
	ISO         string
	Price       float64
	LowPrice    float64
	SuccessRate int64
}

// Order is a single rented-number transaction. It is immutable once the
// provider has issued it; later polls reference it by OrderID only.
type Order struct {
	OrderID     string
	Service     string
	Country     string
	PhoneNumber string
	AreaCode    string
	Cost        int64 // minor currency units
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// UserAccount is the backend's record for a user. Balance is in minor
// currency units and is only mutated through the ledger.
type UserAccount struct {
	ID         int64
	ExternalID string
	Balance    int64
	Orders     []Order
}

type VerificationState int

const (
	StateAwaitingDelivery VerificationState = iota
	StateDelivered
	StateExpired
)

// VerificationStatus is the provider's answer to a single poll. Code and
// FullMessage are set only when State is StateDelivered.
type VerificationStatus struct {
	State       VerificationState
	Code        string
	FullMessage string
	ExpiresAt   time.Time
}

// ServiceMatch pairs a catalog entry with its 0-100 similarity score.
type ServiceMatch struct {
	Service Service
	Score   int
}

// CountryMatch pairs a price-table row with its 0-100 similarity score.
type CountryMatch struct {
	Country CountryPrice
	Score   int
}

type SortOrder string

const (
	SortByPrice       SortOrder = "price"
	SortBySuccessRate SortOrder = "success_rate"
)
