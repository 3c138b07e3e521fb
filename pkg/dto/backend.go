package dto

import "encoding/json"

/**
  {
      "success": true,
      "message": "ok",
      "resource": { ... }
  }
*/

type BackendResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Resource json.RawMessage `json:"resource"`
}

type BackendUser struct {
	ID         int64           `json:"ID"`
	ExternalID string          `json:"ExternalID"`
	Name       string          `json:"Name"`
	Email      string          `json:"Email"`
	Balance    int64           `json:"Balance"`
	Role       int             `json:"Role"`
	CreatedAt  string          `json:"CreatedAt"`
	UpdatedAt  string          `json:"UpdatedAt"`
	Numbers    []BackendNumber `json:"Numbers"`
}

type BackendNumber struct {
	Number    string `json:"Number"`
	AreaCode  string `json:"AreaCode"`
	Service   string `json:"Service"`
	Country   string `json:"Country"`
	Price     int64  `json:"Price"`
	OrderID   string `json:"OrderID"`
	CreatedAt string `json:"CreatedAt"`
	ExpiresAt string `json:"ExpiresAt"`
}

type RecordNumberRequest struct {
	Number   string `json:"number"`
	AreaCode string `json:"area_code"`
	Service  string `json:"service"`
	Country  string `json:"country"`
	Price    int64  `json:"price"`
	OrderID  string `json:"order_id"`
	UserID   int64  `json:"user_id"`
}

// DebitRequest asks the backend to atomically subtract amount from the
// account balance. The backend rejects the write when the balance would
// go negative and deduplicates retries on the idempotency key.
type DebitRequest struct {
	Amount         int64  `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
}

type SetBalanceRequest struct {
	Balance int64 `json:"balance"`
}
