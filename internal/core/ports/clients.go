package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CatalogEntry is one row of the remote catalog service response, normalized
// by the catalog client. Validation tags are enforced by the catalog service
// before an entry is admitted into the live catalog.
type CatalogEntry struct {
	CurrencyCode string  `json:"currencyCode" validate:"required"`
	CountryCode  string  `json:"countryCode"`
	Country      string  `json:"country"`
	Symbol       string  `json:"symbol" validate:"required"`
	ValueWrtUSD  float64 `json:"valueWrtUSD" validate:"required,gt=0"`
	IsActive     bool    `json:"isActive"`
}

// CatalogClient fetches the raw currency catalog from the catalog service.
// Decode/schema failures are wrapped with apperrors.ErrValidation so the
// service can tell them apart from transient network errors.
type CatalogClient interface {
	FetchCurrencies(ctx context.Context) ([]CatalogEntry, error)
}

// RatePayload is the normalized response of the exchange-rate service.
type RatePayload struct {
	Base      string
	Rates     map[string]decimal.Decimal
	Timestamp time.Time
}

// RateClient fetches a base-relative exchange-rate table from the rates
// proxy.
type RateClient interface {
	FetchRates(ctx context.Context, base string) (RatePayload, error)
}

// GeoClient resolves a two-letter country code for an IP address via the
// ipapi proxy. The adapter normalizes the loose response field naming
// (country / country_code / countryCode) before returning.
type GeoClient interface {
	LookupCountry(ctx context.Context, ip string) (string, error)
}

// GeoHints carries the per-request signals the geolocation fallback chain
// degrades through: caller IP, the Accept-Language header, and the IANA
// timezone identifier the front end reports.
type GeoHints struct {
	IP             string
	AcceptLanguage string
	Timezone       string
}
