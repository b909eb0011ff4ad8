package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/learnsphere/currency_backend/internal/apperrors"
	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

const (
	// DefaultRateTTL is how long a snapshot is considered fresh.
	DefaultRateTTL = 6 * time.Hour
	// DefaultRefreshInterval is the proactive refresh cadence.
	DefaultRefreshInterval = time.Hour
)

// refreshFlight is one in-flight remote fetch. Waiters block on done and
// read err afterwards; err is written exactly once, before done is closed.
type refreshFlight struct {
	done chan struct{}
	err  error
}

// RateCacheService is the TTL-cached, self-refreshing exchange-rate table.
// Stale reads are served immediately while a background refresh runs
// (stale-but-available); concurrent refreshes coalesce onto one outbound
// request. A snapshot is only ever replaced by a successful fetch, never
// mutated in place.
type RateCacheService struct {
	client ports.RateClient
	store  ports.KeyValueStore
	logger *slog.Logger

	base            string
	ttl             time.Duration
	refreshInterval time.Duration
	now             func() time.Time

	mu       sync.Mutex
	snapshot *domain.ExchangeRateSnapshot
	flight   *refreshFlight
}

// RateCacheOption customizes a RateCacheService.
type RateCacheOption func(*RateCacheService)

// WithRateTTL overrides the snapshot TTL.
func WithRateTTL(ttl time.Duration) RateCacheOption {
	return func(s *RateCacheService) {
		s.ttl = ttl
	}
}

// WithRefreshInterval overrides the proactive refresh interval.
func WithRefreshInterval(interval time.Duration) RateCacheOption {
	return func(s *RateCacheService) {
		s.refreshInterval = interval
	}
}

// WithRateClock overrides the clock, mainly for tests.
func WithRateClock(now func() time.Time) RateCacheOption {
	return func(s *RateCacheService) {
		s.now = now
	}
}

// NewRateCacheService creates a rate cache for the given base currency.
func NewRateCacheService(client ports.RateClient, store ports.KeyValueStore, logger *slog.Logger, base string, opts ...RateCacheOption) *RateCacheService {
	s := &RateCacheService{
		client:          client,
		store:           store,
		logger:          logger,
		base:            base,
		ttl:             DefaultRateTTL,
		refreshInterval: DefaultRefreshInterval,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadPersisted restores the last persisted snapshot from storage if it has
// not yet expired. Called once at startup; errors are logged and absorbed.
func (s *RateCacheService) LoadPersisted(ctx context.Context) {
	raw, ok, err := s.store.Get(ctx, ports.ScopeShared, ports.KeyRateSnapshot)
	if err != nil {
		s.logger.Warn("Failed to read persisted rate snapshot", slog.String("error", err.Error()))
		return
	}
	if !ok {
		return
	}

	var snapshot domain.ExchangeRateSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		s.logger.Warn("Persisted rate snapshot is corrupt, discarding", slog.String("error", err.Error()))
		return
	}
	if snapshot.StaleAt(s.now(), s.ttl) {
		s.logger.Info("Persisted rate snapshot expired, ignoring",
			slog.Time("fetched_at", snapshot.FetchedAt))
		return
	}

	snapshot.Source = domain.SnapshotSourceCached
	s.mu.Lock()
	s.snapshot = &snapshot
	s.mu.Unlock()
	s.logger.Info("Restored rate snapshot from storage",
		slog.Time("fetched_at", snapshot.FetchedAt),
		slog.Int("rates", len(snapshot.Rates)))
}

// GetRates returns the current snapshot without blocking. A stale snapshot
// still comes back immediately while a background refresh is kicked off. If
// no snapshot has ever been obtained, a synthetic one is built from the
// bootstrap table with FetchedAt at the Unix epoch.
func (s *RateCacheService) GetRates(ctx context.Context) domain.ExchangeRateSnapshot {
	s.mu.Lock()
	snapshot := s.snapshot
	s.mu.Unlock()

	now := s.now()
	if snapshot == nil || snapshot.StaleAt(now, s.ttl) {
		go func() {
			if err := s.Refresh(context.Background()); err != nil {
				s.logger.Warn("Background rate refresh failed", slog.String("error", err.Error()))
			}
		}()
	}

	if snapshot == nil {
		return s.bootstrapSnapshot()
	}
	metrics.SnapshotAgeSeconds.Set(snapshot.Age(now).Seconds())
	return *snapshot
}

// bootstrapSnapshot synthesizes a snapshot from the static bootstrap rates.
func (s *RateCacheService) bootstrapSnapshot() domain.ExchangeRateSnapshot {
	catalog := domain.BootstrapCatalog()
	table := make(map[string]decimal.Decimal, catalog.Len())
	for _, currency := range catalog.List() {
		table[currency.Code] = currency.RateToBase
	}
	return domain.NewSnapshot(s.base, table, time.Unix(0, 0).UTC(), domain.SnapshotSourceBootstrap)
}

// Refresh fetches a new snapshot from the rates service. At most one remote
// fetch is in flight at a time: callers arriving while one runs wait for its
// result instead of issuing a duplicate request. On failure the previous
// snapshot is left untouched and apperrors.ErrRatesUnavailable is returned.
func (s *RateCacheService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.flight != nil {
		flight := s.flight
		s.mu.Unlock()
		metrics.RateRefreshes.WithLabelValues("coalesced").Inc()
		select {
		case <-flight.done:
			return flight.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	flight := &refreshFlight{done: make(chan struct{})}
	s.flight = flight
	s.mu.Unlock()

	flight.err = s.doRefresh(ctx)

	s.mu.Lock()
	s.flight = nil
	s.mu.Unlock()
	close(flight.done)

	return flight.err
}

// doRefresh performs the outbound fetch and snapshot swap.
func (s *RateCacheService) doRefresh(ctx context.Context) error {
	payload, err := s.client.FetchRates(ctx, s.base)
	if err != nil {
		metrics.RateRefreshes.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: %v", apperrors.ErrRatesUnavailable, err)
	}

	fetchedAt := s.now()
	s.mu.Lock()
	// FetchedAt is monotonically non-decreasing across successful fetches.
	if s.snapshot != nil && fetchedAt.Before(s.snapshot.FetchedAt) {
		fetchedAt = s.snapshot.FetchedAt
	}
	snapshot := domain.NewSnapshot(payload.Base, payload.Rates, fetchedAt, domain.SnapshotSourceRemote)
	s.snapshot = &snapshot
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	metrics.RateRefreshes.WithLabelValues("success").Inc()
	s.logger.Info("Exchange-rate snapshot refreshed",
		slog.String("base", snapshot.Base),
		slog.Int("rates", len(snapshot.Rates)))
	return nil
}

// persist writes the snapshot to storage; failures are logged and absorbed.
func (s *RateCacheService) persist(ctx context.Context, snapshot domain.ExchangeRateSnapshot) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("Failed to encode rate snapshot for storage", slog.String("error", err.Error()))
		return
	}
	if err := s.store.Set(ctx, ports.ScopeShared, ports.KeyRateSnapshot, string(raw)); err != nil {
		s.logger.Warn("Failed to persist rate snapshot", slog.String("error", err.Error()))
	}
}

// StartRefreshLoop proactively refreshes on a fixed interval so the cache
// self-heals even with no reads. It blocks until ctx is cancelled; run it in
// its own goroutine. Refresh failures are logged and swallowed.
func (s *RateCacheService) StartRefreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Rate refresh loop stopped")
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warn("Scheduled rate refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}
