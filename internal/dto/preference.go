package dto

import (
	"time"

	"github.com/learnsphere/currency_backend/internal/core/domain"
)

// ChangeCurrencyRequest defines the payload for an explicit currency change.
type ChangeCurrencyRequest struct {
	Code string `json:"code" binding:"required,alpha,len=3"`
}

// AutoDetectRequest defines the payload for toggling auto-detection.
type AutoDetectRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// PreferenceResponse defines the data returned for a resolved currency
// preference, including the catalog entry for rendering.
type PreferenceResponse struct {
	Code     string            `json:"code"`
	Source   string            `json:"source"`
	SetAt    time.Time         `json:"setAt"`
	Currency *CurrencyResponse `json:"currency,omitempty"`
}

// ToPreferenceResponse converts a preference and its catalog entry to a DTO.
// currency may be nil when the code is somehow absent from the catalog.
func ToPreferenceResponse(pref domain.UserCurrencyPreference, currency *domain.Currency) PreferenceResponse {
	res := PreferenceResponse{
		Code:   pref.Code,
		Source: string(pref.Source),
		SetAt:  pref.SetAt,
	}
	if currency != nil {
		cr := ToCurrencyResponse(*currency)
		res.Currency = &cr
	}
	return res
}
