package ports

import (
	"context"

	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CatalogSvcFacade is the currency-catalog component: fetch with bounded
// retry, atomic in-memory replacement, bootstrap fallback.
type CatalogSvcFacade interface {
	// FetchCatalog fetches and validates the remote catalog, retrying
	// transient failures. On exhaustion it returns the last good catalog,
	// or apperrors.ErrCatalogUnavailable if none exists.
	FetchCatalog(ctx context.Context) (*domain.Catalog, error)

	// Catalog returns the current catalog (bootstrap until a fetch succeeds).
	Catalog() *domain.Catalog

	// GetCurrency returns the currency for code from the current catalog,
	// or apperrors.ErrUnknownCurrency.
	GetCurrency(code string) (domain.Currency, error)

	// ListCurrencies returns all currencies in the current catalog.
	ListCurrencies() []domain.Currency
}

// GeoSvcFacade resolves a country code through the remote → locale →
// timezone → default fallback chain. It never fails.
type GeoSvcFacade interface {
	ResolveCountry(ctx context.Context, hints GeoHints) domain.GeoResolutionResult
}

// RateCacheSvcFacade is the TTL-cached exchange-rate table.
type RateCacheSvcFacade interface {
	// GetRates returns the current snapshot immediately, kicking off a
	// background refresh if it is stale. It never fails: with no snapshot
	// available it returns a synthetic bootstrap snapshot.
	GetRates(ctx context.Context) domain.ExchangeRateSnapshot

	// Refresh fetches a new snapshot. Concurrent callers coalesce onto a
	// single outbound request. Returns apperrors.ErrRatesUnavailable on
	// failure, leaving the previous snapshot in place.
	Refresh(ctx context.Context) error

	// StartRefreshLoop runs the fixed-interval proactive refresh until ctx
	// is cancelled. Refresh errors are logged and swallowed.
	StartRefreshLoop(ctx context.Context)
}

// ResolverSvcFacade decides and persists the active display currency for a
// session.
type ResolverSvcFacade interface {
	// Resolve returns the session's active currency, resolving it on first
	// access: stored preference, then geolocation (if auto-detect is on),
	// then the static default. Idempotent once resolved.
	Resolve(ctx context.Context, sessionID string, hints GeoHints) (domain.UserCurrencyPreference, error)

	// ChangeCurrency sets an explicit preference. Fails with
	// apperrors.ErrUnknownCurrency if code is not in the catalog; the
	// previous preference is then left unchanged.
	ChangeCurrency(ctx context.Context, sessionID, code string) (domain.UserCurrencyPreference, error)

	// CurrentCurrency returns the already-resolved preference without
	// triggering resolution.
	CurrentCurrency(ctx context.Context, sessionID string) (domain.UserCurrencyPreference, bool)

	// ResetPreference removes the stored preference and the resolved state,
	// so the next Resolve runs the full chain again.
	ResetPreference(ctx context.Context, sessionID string) error

	// SetAutoDetect persists the session's auto-detection flag.
	SetAutoDetect(ctx context.Context, sessionID string, enabled bool) error
}

// FormatOptions controls price formatting.
type FormatOptions struct {
	// Code is the target currency; empty means the amount is already in the
	// target currency of the caller's choosing (no conversion lookup).
	Code string
	// Decimals is the display precision; nil means the 0-decimal default.
	Decimals *int
	// ShowCode appends the ISO code after the formatted amount.
	ShowCode bool
}

// PricingSvcFacade converts base-currency amounts and renders display
// strings. Neither operation ever fails; unknown codes convert at rate 1.0.
type PricingSvcFacade interface {
	// Convert converts an amount in the base currency to targetCode,
	// rounded to 2 decimal places.
	Convert(ctx context.Context, amountInBase decimal.Decimal, targetCode string) decimal.Decimal

	// ConvertFrom converts an amount in fromCode back to the base currency,
	// rounded to 2 decimal places.
	ConvertFrom(ctx context.Context, amount decimal.Decimal, fromCode string) decimal.Decimal

	// Format converts (when opts.Code is set) and renders a display string.
	// An amount of exactly zero renders as "Free".
	Format(ctx context.Context, amountInBase decimal.Decimal, opts FormatOptions) string
}

// ServiceContainer holds instances of all the subsystem services. It is the
// entry point for handlers.
type ServiceContainer struct {
	Catalog   CatalogSvcFacade
	Geo       GeoSvcFacade
	RateCache RateCacheSvcFacade
	Resolver  ResolverSvcFacade
	Pricing   PricingSvcFacade
}
