package dto

import "github.com/shopspring/decimal"

// ConvertRequest defines the payload for price conversion. Amount is a
// pointer so an absent field degrades to zero instead of failing the bind;
// prices must never break a page render.
type ConvertRequest struct {
	// Amount is in the base currency unless From is set.
	Amount *float64 `json:"amount"`
	// Code is the target currency; empty means the session's resolved currency.
	Code string `json:"code" binding:"omitempty,alpha,len=3"`
	// From converts Amount from this currency back to the base instead.
	From string `json:"from" binding:"omitempty,alpha,len=3"`
}

// ConvertResponse defines the result of a conversion.
type ConvertResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Code   string          `json:"code"`
}

// FormatRequest defines the payload for price formatting.
type FormatRequest struct {
	Amount *float64 `json:"amount"`
	// Code is the target currency; empty means the session's resolved currency.
	Code string `json:"code" binding:"omitempty,alpha,len=3"`
	// Decimals overrides the 0-decimal display default.
	Decimals *int `json:"decimals" binding:"omitempty,min=0,max=8"`
	// ShowCode appends the ISO code to the display string.
	ShowCode bool `json:"showCode"`
}

// FormatResponse defines the rendered display string.
type FormatResponse struct {
	Display string `json:"display"`
	Code    string `json:"code"`
}
