package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// bootstrapCurrencies is the static table the process starts with. The
// catalog service overwrites it wholesale on a successful fetch; the rates
// here are last-resort fallbacks, not live data.
var bootstrapCurrencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar", RateToBase: decimal.NewFromInt(1)},
	{Code: "EUR", Symbol: "€", Name: "Euro", RateToBase: decimal.RequireFromString("0.92")},
	{Code: "GBP", Symbol: "£", Name: "British Pound", RateToBase: decimal.RequireFromString("0.79")},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee", RateToBase: decimal.RequireFromString("83.10")},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", RateToBase: decimal.RequireFromString("149.50")},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar", RateToBase: decimal.RequireFromString("1.52")},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", RateToBase: decimal.RequireFromString("1.36")},
	{Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", RateToBase: decimal.RequireFromString("1.34")},
	{Code: "AED", Symbol: "د.إ", Name: "UAE Dirham", RateToBase: decimal.RequireFromString("3.67")},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real", RateToBase: decimal.RequireFromString("4.97")},
	{Code: "NGN", Symbol: "₦", Name: "Nigerian Naira", RateToBase: decimal.RequireFromString("1550.00")},
	{Code: "ZAR", Symbol: "R", Name: "South African Rand", RateToBase: decimal.RequireFromString("18.60")},
	{Code: "IDR", Symbol: "Rp", Name: "Indonesian Rupiah", RateToBase: decimal.RequireFromString("15600.00")},
	{Code: "PHP", Symbol: "₱", Name: "Philippine Peso", RateToBase: decimal.RequireFromString("56.20")},
	{Code: "MXN", Symbol: "Mex$", Name: "Mexican Peso", RateToBase: decimal.RequireFromString("17.10")},
}

// BootstrapCatalog returns a catalog built from the static table. FetchedAt
// is the zero time so it is distinguishable from a remote catalog.
func BootstrapCatalog() *Catalog {
	currencies := make([]Currency, len(bootstrapCurrencies))
	copy(currencies, bootstrapCurrencies)
	return NewCatalog(currencies, time.Time{}, false)
}
