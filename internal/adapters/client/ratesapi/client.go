package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/learnsphere/currency_backend/internal/apperrors"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/shopspring/decimal"
)

// Client talks to the exchange-rate service through the same-origin proxy,
// so upstream credentials never reach this process's callers.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a rates client with a per-call timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// wireRates mirrors the proxy response: { rates, base?, timestamp? }.
type wireRates struct {
	Rates     map[string]float64 `json:"rates"`
	Base      string             `json:"base"`
	Timestamp int64              `json:"timestamp"`
}

// FetchRates fetches the rate table relative to base. Malformed or empty
// responses are wrapped with apperrors.ErrValidation.
func (c *Client) FetchRates(ctx context.Context, base string) (ports.RatePayload, error) {
	endpoint := fmt.Sprintf("%s/proxy/exchange-rates?base=%s", c.baseURL, url.QueryEscape(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.RatePayload{}, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.RatePayload{}, fmt.Errorf("rates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.RatePayload{}, fmt.Errorf("rates service returned status %d", resp.StatusCode)
	}

	var wire wireRates
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return ports.RatePayload{}, fmt.Errorf("%w: malformed rates response: %v", apperrors.ErrValidation, err)
	}
	if len(wire.Rates) == 0 {
		return ports.RatePayload{}, fmt.Errorf("%w: rates response contained no rates", apperrors.ErrValidation)
	}

	payload := ports.RatePayload{
		Base:  wire.Base,
		Rates: make(map[string]decimal.Decimal, len(wire.Rates)),
	}
	if payload.Base == "" {
		payload.Base = base
	}
	for code, rate := range wire.Rates {
		if rate <= 0 {
			continue
		}
		payload.Rates[code] = decimal.NewFromFloat(rate)
	}
	if wire.Timestamp > 0 {
		payload.Timestamp = time.Unix(wire.Timestamp, 0)
	}
	return payload, nil
}
