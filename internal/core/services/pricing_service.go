package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// convertedScale is the precision of stored converted amounts. Display
// rounding is applied separately and never feeds back into computation.
const convertedScale = 2

// PricingService converts base-currency amounts and renders display
// strings. The live rate snapshot is authoritative; the static catalog
// RateToBase is a fallback, and a completely unknown code converts at 1.0.
// Nothing here ever fails: broken inputs degrade to a zero-amount display.
type PricingService struct {
	catalog ports.CatalogSvcFacade
	rates   ports.RateCacheSvcFacade
	logger  *slog.Logger
	printer *message.Printer
}

// NewPricingService creates a pricing service rendering numbers for the
// given display locale.
func NewPricingService(catalog ports.CatalogSvcFacade, rates ports.RateCacheSvcFacade, logger *slog.Logger, displayLocale language.Tag) *PricingService {
	return &PricingService{
		catalog: catalog,
		rates:   rates,
		logger:  logger,
		printer: message.NewPrinter(displayLocale),
	}
}

// rateFor resolves the conversion rate for code: live snapshot first, then
// the static catalog, then 1.0.
func (s *PricingService) rateFor(ctx context.Context, code string) decimal.Decimal {
	if code == "" || code == domain.BaseCurrencyCode {
		return decimal.NewFromInt(1)
	}

	snapshot := s.rates.GetRates(ctx)
	if rate, ok := snapshot.Rate(code); ok && rate.IsPositive() {
		return rate
	}
	if currency, err := s.catalog.GetCurrency(code); err == nil && currency.RateToBase.IsPositive() {
		return currency.RateToBase
	}

	s.logger.Debug("No rate for currency, converting at 1.0", slog.String("code", code))
	return decimal.NewFromInt(1)
}

// Convert converts an amount in the base currency into targetCode, rounded
// to 2 decimal places.
func (s *PricingService) Convert(ctx context.Context, amountInBase decimal.Decimal, targetCode string) decimal.Decimal {
	targetCode = strings.ToUpper(targetCode)
	return amountInBase.Mul(s.rateFor(ctx, targetCode)).Round(convertedScale)
}

// ConvertFrom converts an amount in fromCode back into the base currency,
// rounded to 2 decimal places.
func (s *PricingService) ConvertFrom(ctx context.Context, amount decimal.Decimal, fromCode string) decimal.Decimal {
	fromCode = strings.ToUpper(fromCode)
	return amount.Div(s.rateFor(ctx, fromCode)).Round(convertedScale)
}

// Format converts amountInBase into opts.Code (when set) and renders a
// display string: "Free" for exactly zero, otherwise the currency symbol
// followed by the locale-grouped amount at the requested precision (default
// 0 decimals), optionally suffixed with the ISO code.
func (s *PricingService) Format(ctx context.Context, amountInBase decimal.Decimal, opts ports.FormatOptions) string {
	code := strings.ToUpper(opts.Code)
	if code == "" {
		code = domain.BaseCurrencyCode
	}

	// Free courses never show a currency symbol.
	if amountInBase.IsZero() {
		return "Free"
	}

	converted := s.Convert(ctx, amountInBase, code)

	decimals := 0
	if opts.Decimals != nil && *opts.Decimals >= 0 {
		decimals = *opts.Decimals
	}
	// Display rounding happens on a copy; converted keeps its 2-decimal scale.
	display, _ := converted.Round(int32(decimals)).Float64()
	rendered := s.printer.Sprintf("%v", number.Decimal(display, number.Scale(decimals)))

	var symbol string
	if currency, err := s.catalog.GetCurrency(code); err == nil {
		symbol = currency.Symbol
	} else {
		// Unknown code: fall back to the code itself as a prefix.
		symbol = code + " "
	}

	out := symbol + rendered
	if opts.ShowCode {
		out += " " + code
	}
	return out
}
