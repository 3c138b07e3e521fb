package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crspy2/alterabot/internal/domain"
	"github.com/crspy2/alterabot/pkg/dto"
	"github.com/crspy2/alterabot/pkg/logger"
)

const requestTimeout = 30 * time.Second

// Client talks to the account backend, the service of record for users,
// balances and rented numbers. All calls carry the static admin token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	adminToken string
}

func New(baseURL, adminToken string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminToken: adminToken,
	}
}

// AccountByExternalID resolves a chat-platform user ID to the backend
// account, including the rented-number history.
func (c *Client) AccountByExternalID(ctx context.Context, externalID string) (*domain.UserAccount, error) {
	resp, err := c.do(ctx, http.MethodGet, "/user/external/"+externalID, nil)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, externalID)
	}

	var user dto.BackendUser
	if err := json.Unmarshal(resp.Resource, &user); err != nil {
		return nil, fmt.Errorf("error decoding account resource: %w", err)
	}

	account := &domain.UserAccount{
		ID:         user.ID,
		ExternalID: user.ExternalID,
		Balance:    user.Balance,
		Orders:     make([]domain.Order, len(user.Numbers)),
	}
	for i, n := range user.Numbers {
		account.Orders[i] = domain.Order{
			OrderID:     n.OrderID,
			Service:     n.Service,
			Country:     n.Country,
			PhoneNumber: n.Number,
			AreaCode:    n.AreaCode,
			Cost:        n.Price,
			CreatedAt:   parseTime(n.CreatedAt),
			ExpiresAt:   parseTime(n.ExpiresAt),
		}
	}

	return account, nil
}

// RecordOrder associates a freshly purchased number with an account.
func (c *Client) RecordOrder(ctx context.Context, order *domain.Order, accountID int64) error {
	request := dto.RecordNumberRequest{
		Number:   order.PhoneNumber,
		AreaCode: order.AreaCode,
		Service:  order.Service,
		Country:  order.Country,
		Price:    order.Cost,
		OrderID:  order.OrderID,
		UserID:   accountID,
	}

	resp, err := c.do(ctx, http.MethodPost, "/user/"+strconv.FormatInt(accountID, 10)+"/numbers", request)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("error recording order: %s", resp.Message)
	}

	return nil
}

// Debit atomically subtracts amount from the account balance. The backend
// enforces the non-negative invariant and answers 402 when the balance
// does not cover the amount.
func (c *Client) Debit(ctx context.Context, accountID, amount int64) error {
	request := dto.DebitRequest{
		Amount:         amount,
		IdempotencyKey: uuid.NewString(),
	}

	resp, err := c.do(ctx, http.MethodPost, "/user/"+strconv.FormatInt(accountID, 10)+"/balance/debit", request)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("error debiting account: %s", resp.Message)
	}

	return nil
}

// SetBalance replaces the account balance outright. Operator use only;
// the verification workflow always goes through Debit.
func (c *Client) SetBalance(ctx context.Context, accountID, newBalance int64) error {
	request := dto.SetBalanceRequest{Balance: newBalance}

	resp, err := c.do(ctx, http.MethodPut, "/user/"+strconv.FormatInt(accountID, 10)+"/balance", request)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("error setting balance: %s", resp.Message)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*dto.BackendResponse, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("error encoding backend request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("error building backend request: %w", err)
	}

	req.Header.Set("Authorization", c.adminToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling backend: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logger.Log.Error("error while closing response body", logger.Error(err))
		}
	}(response.Body)

	if response.StatusCode == http.StatusPaymentRequired {
		return nil, domain.ErrInsufficientFunds
	}

	var resp dto.BackendResponse
	if err := json.NewDecoder(response.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("error decoding backend response: %w", err)
	}

	return &resp, nil
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		logger.Log.Warn("unparseable backend timestamp", logger.String("value", value))
		return time.Time{}
	}

	return t
}
