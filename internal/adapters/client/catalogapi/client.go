package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/learnsphere/currency_backend/internal/apperrors"
	"github.com/learnsphere/currency_backend/internal/core/ports"
)

// Client talks to the currency catalog service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a catalog client with a per-call timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// catalogEnvelope mirrors the catalog service response:
// { status, results, data: { currencies: [...] } }
type catalogEnvelope struct {
	Status  string `json:"status"`
	Results int    `json:"results"`
	Data    struct {
		Currencies []wireCurrency `json:"currencies"`
	} `json:"data"`
}

type wireCurrency struct {
	CurrencyCode string  `json:"currencyCode"`
	CountryCode  string  `json:"countryCode"`
	Country      string  `json:"country"`
	Symbol       string  `json:"symbol"`
	ValueWrtUSD  float64 `json:"valueWrtUSD"`
	IsActive     bool    `json:"isActive"`
}

// FetchCurrencies fetches the raw catalog. Malformed responses are wrapped
// with apperrors.ErrValidation so callers do not retry them; transport and
// server errors are returned as plain (retryable) errors.
func (c *Client) FetchCurrencies(ctx context.Context) ([]ports.CatalogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/currencies", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}

	var envelope catalogEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed catalog response: %v", apperrors.ErrValidation, err)
	}

	entries := make([]ports.CatalogEntry, 0, len(envelope.Data.Currencies))
	for _, wc := range envelope.Data.Currencies {
		entries = append(entries, ports.CatalogEntry{
			CurrencyCode: wc.CurrencyCode,
			CountryCode:  wc.CountryCode,
			Country:      wc.Country,
			Symbol:       wc.Symbol,
			ValueWrtUSD:  wc.ValueWrtUSD,
			IsActive:     wc.IsActive,
		})
	}
	return entries, nil
}
