package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrCatalogUnavailable indicates that the remote currency catalog could not
// be fetched and no previously cached catalog exists. Callers must continue
// with the static bootstrap table.
var ErrCatalogUnavailable = errors.New("currency catalog unavailable")

// ErrRatesUnavailable indicates that an exchange-rate refresh failed. It is
// logged and swallowed by background refreshers; the last snapshot stays in
// effect.
var ErrRatesUnavailable = errors.New("exchange rates unavailable")

// ErrUnknownCurrency indicates that a caller requested a currency code that
// is absent from the current catalog.
var ErrUnknownCurrency = errors.New("unknown currency code")
