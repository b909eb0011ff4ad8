package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotSource identifies where an ExchangeRateSnapshot came from.
type SnapshotSource string

const (
	// SnapshotSourceRemote means the snapshot was fetched from the rates service.
	SnapshotSourceRemote SnapshotSource = "remote"
	// SnapshotSourceCached means the snapshot was restored from persistent storage.
	SnapshotSourceCached SnapshotSource = "cached"
	// SnapshotSourceBootstrap means the snapshot was synthesized from the
	// static bootstrap table because no fetch has ever succeeded. Its
	// FetchedAt is the Unix epoch so callers can tell it apart.
	SnapshotSourceBootstrap SnapshotSource = "bootstrap"
)

// ExchangeRateSnapshot is a base-currency-relative rate table. Snapshots are
// immutable; a refresh produces a new snapshot rather than mutating the old
// one in place.
type ExchangeRateSnapshot struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetchedAt"`
	Source    SnapshotSource             `json:"source"`
}

// NewSnapshot builds a snapshot, guaranteeing the base currency is present
// in the rate table with rate 1.0.
func NewSnapshot(base string, rates map[string]decimal.Decimal, fetchedAt time.Time, source SnapshotSource) ExchangeRateSnapshot {
	table := make(map[string]decimal.Decimal, len(rates)+1)
	for code, rate := range rates {
		table[code] = rate
	}
	if _, ok := table[base]; !ok {
		table[base] = decimal.NewFromInt(1)
	}
	return ExchangeRateSnapshot{Base: base, Rates: table, FetchedAt: fetchedAt, Source: source}
}

// Rate returns the rate for code and whether it is present.
func (s ExchangeRateSnapshot) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := s.Rates[code]
	return rate, ok
}

// Age returns how old the snapshot is relative to now.
func (s ExchangeRateSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// StaleAt reports whether the snapshot is older than ttl at the given time.
func (s ExchangeRateSnapshot) StaleAt(now time.Time, ttl time.Duration) bool {
	return s.Age(now) > ttl
}
