package ports

import "context"

// KeyValueStore is scoped persistent key/value storage with string values.
// Scopes isolate sessions from each other and from process-wide keys. Each
// call is a single atomic operation; implementations never hold locks across
// awaits.
type KeyValueStore interface {
	// Get returns the value for key within scope and whether it exists.
	Get(ctx context.Context, scope, key string) (string, bool, error)

	// Set writes the value for key within scope, overwriting any previous value.
	Set(ctx context.Context, scope, key, value string) error

	// Remove deletes the key within scope. Removing an absent key is not an error.
	Remove(ctx context.Context, scope, key string) error
}

// Well-known storage keys and scopes used by the currency subsystem.
const (
	// ScopeShared holds process-wide state such as the cached rate snapshot.
	ScopeShared = "shared"

	// KeyPreferredCurrency stores the session's UserCurrencyPreference JSON.
	KeyPreferredCurrency = "preferred-currency"
	// KeyAutoDetect stores the session's auto-detection flag ("true"/"false").
	KeyAutoDetect = "currency-auto-detect"
	// KeyRateSnapshot stores the last successful ExchangeRateSnapshot JSON.
	KeyRateSnapshot = "exchange-rate-snapshot"
)
