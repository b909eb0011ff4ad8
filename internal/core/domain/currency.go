package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseCurrencyCode is the reference currency in which catalog rates and
// stored monetary amounts are expressed.
const BaseCurrencyCode = "USD"

// Currency represents a supported display currency.
type Currency struct {
	Code       string          `json:"code"`       // ISO-4217-like code, e.g. "USD"
	Symbol     string          `json:"symbol"`     // e.g. "$"
	Name       string          `json:"name"`       // e.g. "US Dollar"
	RateToBase decimal.Decimal `json:"rateToBase"` // units of this currency per one base unit, > 0
}

// Catalog is an immutable set of supported currencies keyed by code.
// A new Catalog replaces the previous one wholesale; it is never mutated
// after construction, so readers may hold a reference across awaits.
type Catalog struct {
	currencies map[string]Currency
	order      []string
	fetchedAt  time.Time
	remote     bool
}

// NewCatalog builds a catalog from a currency list. Later duplicates of a
// code are ignored so the first entry wins.
func NewCatalog(currencies []Currency, fetchedAt time.Time, remote bool) *Catalog {
	byCode := make(map[string]Currency, len(currencies))
	order := make([]string, 0, len(currencies))
	for _, c := range currencies {
		if _, exists := byCode[c.Code]; exists {
			continue
		}
		byCode[c.Code] = c
		order = append(order, c.Code)
	}
	return &Catalog{currencies: byCode, order: order, fetchedAt: fetchedAt, remote: remote}
}

// Get returns the currency for code and whether it exists.
func (c *Catalog) Get(code string) (Currency, bool) {
	curr, ok := c.currencies[code]
	return curr, ok
}

// Has reports whether code exists in the catalog.
func (c *Catalog) Has(code string) bool {
	_, ok := c.currencies[code]
	return ok
}

// List returns the currencies in their catalog order.
func (c *Catalog) List() []Currency {
	out := make([]Currency, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.currencies[code])
	}
	return out
}

// Len returns the number of currencies in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// FetchedAt returns when this catalog was obtained.
func (c *Catalog) FetchedAt() time.Time {
	return c.fetchedAt
}

// Remote reports whether this catalog came from the catalog service, as
// opposed to the static bootstrap table.
func (c *Catalog) Remote() bool {
	return c.remote
}
