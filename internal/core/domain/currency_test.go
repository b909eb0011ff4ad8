package domain_test

import (
	"testing"
	"time"

	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_FirstOccurrenceWins(t *testing.T) {
	catalog := domain.NewCatalog([]domain.Currency{
		{Code: "USD", Symbol: "$", RateToBase: decimal.NewFromInt(1)},
		{Code: "USD", Symbol: "US$", RateToBase: decimal.NewFromInt(2)},
	}, time.Now(), true)

	require.Equal(t, 1, catalog.Len())
	currency, ok := catalog.Get("USD")
	require.True(t, ok)
	assert.Equal(t, "$", currency.Symbol)
}

func TestBootstrapCatalog_IsLocal(t *testing.T) {
	catalog := domain.BootstrapCatalog()

	assert.False(t, catalog.Remote())
	assert.True(t, catalog.FetchedAt().IsZero())
	assert.True(t, catalog.Has(domain.BaseCurrencyCode))
}

func TestCurrencyForCountry(t *testing.T) {
	code, ok := domain.CurrencyForCountry("IN")
	require.True(t, ok)
	assert.Equal(t, "INR", code)

	// Eurozone members share a currency.
	code, ok = domain.CurrencyForCountry("DE")
	require.True(t, ok)
	assert.Equal(t, "EUR", code)

	_, ok = domain.CurrencyForCountry("ZZ")
	assert.False(t, ok)
}

func TestCountryForTimezone(t *testing.T) {
	code, ok := domain.CountryForTimezone("Asia/Kolkata")
	require.True(t, ok)
	assert.Equal(t, "IN", code)

	_, ok = domain.CountryForTimezone("Mars/Olympus_Mons")
	assert.False(t, ok)
}
