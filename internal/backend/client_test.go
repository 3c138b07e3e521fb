package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crspy2/alterabot/internal/domain"
	"github.com/crspy2/alterabot/pkg/dto"
)

func TestAccountByExternalID(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/user/external/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "admin-token", r.Header.Get("Authorization"))
		assert.Equal(t, "42", chi.URLParam(r, "id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "ok",
			"resource": {
				"ID": 7,
				"ExternalID": "42",
				"Name": "alice",
				"Balance": 500,
				"Numbers": [
					{
						"Number": "7700900123",
						"AreaCode": "44",
						"Service": "Telegram",
						"Country": "United Kingdom",
						"Price": 50,
						"OrderID": "ORD123",
						"CreatedAt": "2024-07-01T12:00:00Z",
						"ExpiresAt": "2024-07-01T12:10:00Z"
					}
				]
			}
		}`))
	})
	server := httptest.NewServer(r)
	defer server.Close()

	client := New(server.URL, "admin-token")

	account, err := client.AccountByExternalID(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, int64(7), account.ID)
	assert.Equal(t, "42", account.ExternalID)
	assert.Equal(t, int64(500), account.Balance)

	require.Len(t, account.Orders, 1)
	order := account.Orders[0]
	assert.Equal(t, "ORD123", order.OrderID)
	assert.Equal(t, int64(50), order.Cost)
	assert.Equal(t, time.Date(2024, 7, 1, 12, 10, 0, 0, time.UTC), order.ExpiresAt)
}

func TestAccountByExternalID_NotFound(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/user/external/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "message": "user not found", "resource": null}`))
	})
	server := httptest.NewServer(r)
	defer server.Close()

	client := New(server.URL, "admin-token")

	_, err := client.AccountByExternalID(context.Background(), "42")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestRecordOrder(t *testing.T) {
	var got dto.RecordNumberRequest

	r := chi.NewRouter()
	r.Post("/user/{id}/numbers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", chi.URLParam(r, "id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "ok", "resource": null}`))
	})
	server := httptest.NewServer(r)
	defer server.Close()

	client := New(server.URL, "admin-token")

	order := &domain.Order{
		OrderID:     "ORD123",
		Service:     "Telegram",
		Country:     "United Kingdom",
		PhoneNumber: "7700900123",
		AreaCode:    "44",
		Cost:        75,
	}

	require.NoError(t, client.RecordOrder(context.Background(), order, 7))

	assert.Equal(t, "ORD123", got.OrderID)
	assert.Equal(t, int64(75), got.Price)
	assert.Equal(t, int64(7), got.UserID)
}

func TestDebit(t *testing.T) {
	var got dto.DebitRequest

	r := chi.NewRouter()
	r.Post("/user/{id}/balance/debit", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "ok", "resource": null}`))
	})
	server := httptest.NewServer(r)
	defer server.Close()

	client := New(server.URL, "admin-token")

	require.NoError(t, client.Debit(context.Background(), 7, 50))
	assert.Equal(t, int64(50), got.Amount)
	assert.NotEmpty(t, got.IdempotencyKey)
}

func TestDebit_InsufficientFunds(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/user/{id}/balance/debit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})
	server := httptest.NewServer(r)
	defer server.Close()

	client := New(server.URL, "admin-token")

	err := client.Debit(context.Background(), 7, 50)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestSetBalance(t *testing.T) {
	var got dto.SetBalanceRequest

	r := chi.NewRouter()
	r.Put("/user/{id}/balance", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "ok", "resource": null}`))
	})
	server := httptest.NewServer(r)
	defer server.Close()

	client := New(server.URL, "admin-token")

	require.NoError(t, client.SetBalance(context.Background(), 7, 1000))
	assert.Equal(t, int64(1000), got.Balance)
}

func TestBackendRejection(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/user/{id}/numbers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "message": "duplicate order", "resource": null}`))
	})
	server := httptest.NewServer(r)
	defer server.Close()

	client := New(server.URL, "admin-token")

	err := client.RecordOrder(context.Background(), &domain.Order{OrderID: "ORD123"}, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate order")
}
