package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crspy2/alterabot/internal/domain"
	"github.com/crspy2/alterabot/pkg/dto"
	"github.com/crspy2/alterabot/pkg/logger"
)

const requestTimeout = 30 * time.Second

// pending sub-reasons the provider reports while a code is still on its way
var pendingStatuses = map[int]bool{1: true, 2: true, 4: true}

const statusDelivered = 3

// APIError is the provider's structured non-2xx body. At least one
// human-readable message is guaranteed by the provider contract.
type APIError struct {
	StatusCode int
	Errors     []dto.ProviderErrorDetail
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("provider error: %s", e.Errors[0].Message)
	}
	return fmt.Sprintf("provider returned status %d", e.StatusCode)
}

type authStyle int

const (
	authNone authStyle = iota
	authBearer
	authRaw // the sms check endpoint wants the key without the Bearer prefix
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Services fetches the live service catalog.
func (c *Client) Services(ctx context.Context) ([]domain.Service, error) {
	var raw []dto.ProviderService
	if err := c.postForm(ctx, "/service/retrieve_all", nil, authNone, &raw); err != nil {
		return nil, err
	}

	services := make([]domain.Service, len(raw))
	for i, s := range raw {
		services[i] = domain.Service{ID: s.ID, Name: s.Name}
	}

	return services, nil
}

// CountryPrices fetches the per-country price table for a service. An
// empty slice is a valid response; callers decide what it means.
func (c *Client) CountryPrices(ctx context.Context, service string) ([]domain.CountryPrice, error) {
	form := url.Values{"service": {service}}

	var raw []dto.ProviderCountryPrice
	if err := c.postForm(ctx, "/request/success_rate", form, authNone, &raw); err != nil {
		return nil, err
	}

	prices := make([]domain.CountryPrice, len(raw))
	for i, p := range raw {
		prices[i] = domain.CountryPrice{
			CountryID:   p.CountryID,
			Name:        p.Name,
			ISO:         p.ShortName,
			Price:       float64(p.Price),
			LowPrice:    float64(p.LowPrice),
			SuccessRate: int64(p.SuccessRate),
		}
	}

	return prices, nil
}

// CreateOrder rents a number for (service, country). Cost on the returned
// order is the provider's raw price in minor units; the charge multiplier
// is applied later by the ledger.
func (c *Client) CreateOrder(ctx context.Context, service, country string) (*domain.Order, error) {
	form := url.Values{
		"service":        {service},
		"country":        {country},
		"pricing_option": {"1"},
	}

	var raw dto.ProviderOrder
	if err := c.postForm(ctx, "/purchase/sms", form, authBearer, &raw); err != nil {
		return nil, err
	}

	now := time.Now()
	return &domain.Order{
		OrderID:     raw.OrderID,
		Service:     raw.Service,
		Country:     raw.Country,
		PhoneNumber: raw.PhoneNumber,
		AreaCode:    raw.AreaCode,
		Cost:        int64(math.Round(float64(raw.Cost) * 100)),
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Duration(raw.ExpiresIn) * time.Second),
	}, nil
}

// OrderStatus polls one order. Transport and non-parseable failures come
// back as errors; every parsed status maps onto the three verification
// states.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (*domain.VerificationStatus, error) {
	form := url.Values{"order_id": {orderID}}

	var raw dto.ProviderSMSCheck
	if err := c.postForm(ctx, "/sms/check", form, authRaw, &raw); err != nil {
		return nil, err
	}

	status := &domain.VerificationStatus{
		ExpiresAt: time.Unix(raw.Expiration, 0),
	}

	switch {
	case pendingStatuses[raw.Status]:
		status.State = domain.StateAwaitingDelivery
	case raw.Status == statusDelivered:
		status.State = domain.StateDelivered
		status.Code = raw.SMS
		status.FullMessage = raw.FullSMS
	default:
		status.State = domain.StateExpired
	}

	return status, nil
}

// Balance reports the provider-side account balance in dollars.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var raw dto.ProviderBalance
	if err := c.postForm(ctx, "/request/balance", nil, authBearer, &raw); err != nil {
		return 0, err
	}

	return float64(raw.Balance), nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, auth authStyle, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("error building provider request: %w", err)
	}

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	switch auth {
	case authBearer:
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	case authRaw:
		req.Header.Set("Authorization", c.apiKey)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logger.Log.Error("error while closing response body", logger.Error(err))
		}
	}(response.Body)

	if response.StatusCode != http.StatusOK {
		var apiErr dto.ProviderError
		if err := json.NewDecoder(response.Body).Decode(&apiErr); err != nil || len(apiErr.Errors) == 0 {
			return fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, response.StatusCode)
		}
		return &APIError{StatusCode: response.StatusCode, Errors: apiErr.Errors}
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	return nil
}
