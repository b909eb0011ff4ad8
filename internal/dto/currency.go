package dto

import (
	"time"

	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyResponse defines the data returned for a supported currency.
type CurrencyResponse struct {
	Code       string          `json:"code"`
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	RateToBase decimal.Decimal `json:"rateToBase"`
}

// ToCurrencyResponse converts a domain.Currency to a CurrencyResponse DTO.
func ToCurrencyResponse(curr domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		Code:       curr.Code,
		Symbol:     curr.Symbol,
		Name:       curr.Name,
		RateToBase: curr.RateToBase,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(curr)
	}
	return res
}

// RatesResponse defines the data returned for the current rate snapshot.
type RatesResponse struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetchedAt"`
	Source    string                     `json:"source"`
	Stale     bool                       `json:"stale"`
}

// ToRatesResponse converts a snapshot to its DTO, marking staleness against
// the given TTL.
func ToRatesResponse(snapshot domain.ExchangeRateSnapshot, now time.Time, ttl time.Duration) RatesResponse {
	return RatesResponse{
		Base:      snapshot.Base,
		Rates:     snapshot.Rates,
		FetchedAt: snapshot.FetchedAt,
		Source:    string(snapshot.Source),
		Stale:     snapshot.StaleAt(now, ttl),
	}
}
