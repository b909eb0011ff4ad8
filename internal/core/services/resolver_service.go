package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/learnsphere/currency_backend/internal/apperrors"
	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/platform/metrics"
)

// ResolverService decides the active display currency per session. Each
// session moves Unresolved → Resolving → Resolved exactly once; after that,
// resolution is a map lookup until an explicit change or reset. Concurrent
// first accesses for the same session coalesce so the chain runs once.
type ResolverService struct {
	catalog ports.CatalogSvcFacade
	geo     ports.GeoSvcFacade
	store   ports.KeyValueStore
	logger  *slog.Logger

	defaultCode string
	now         func() time.Time

	mu        sync.Mutex
	resolved  map[string]domain.UserCurrencyPreference
	resolving map[string]chan struct{}
}

// ResolverOption customizes a ResolverService.
type ResolverOption func(*ResolverService)

// WithResolverClock overrides the clock, mainly for tests.
func WithResolverClock(now func() time.Time) ResolverOption {
	return func(s *ResolverService) {
		s.now = now
	}
}

// NewResolverService creates a resolver with the given fixed default code.
func NewResolverService(catalog ports.CatalogSvcFacade, geo ports.GeoSvcFacade, store ports.KeyValueStore, logger *slog.Logger, defaultCode string, opts ...ResolverOption) *ResolverService {
	s := &ResolverService{
		catalog:     catalog,
		geo:         geo,
		store:       store,
		logger:      logger,
		defaultCode: defaultCode,
		now:         time.Now,
		resolved:    make(map[string]domain.UserCurrencyPreference),
		resolving:   make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the session's active currency, running the resolution
// chain on first access: stored preference (if its code is still in the
// catalog), then geolocation when auto-detect is on, then the static
// default. Resolution is bounded by the geolocation timeout and never fails;
// the error return only reports ctx cancellation while waiting on a
// concurrent resolution.
func (s *ResolverService) Resolve(ctx context.Context, sessionID string, hints ports.GeoHints) (domain.UserCurrencyPreference, error) {
	for {
		s.mu.Lock()
		if pref, ok := s.resolved[sessionID]; ok {
			s.mu.Unlock()
			return pref, nil
		}
		if done, ok := s.resolving[sessionID]; ok {
			s.mu.Unlock()
			select {
			case <-done:
				continue // re-read the resolved state
			case <-ctx.Done():
				return domain.UserCurrencyPreference{}, ctx.Err()
			}
		}
		done := make(chan struct{})
		s.resolving[sessionID] = done
		s.mu.Unlock()

		pref := s.resolve(ctx, sessionID, hints)

		s.mu.Lock()
		s.resolved[sessionID] = pref
		delete(s.resolving, sessionID)
		s.mu.Unlock()
		close(done)
		return pref, nil
	}
}

// resolve runs the chain for one session. Storage errors are logged and
// treated as absent values; resolution must never break a page render.
func (s *ResolverService) resolve(ctx context.Context, sessionID string, hints ports.GeoHints) domain.UserCurrencyPreference {
	logger := s.logger.With(slog.String("session_id", sessionID))

	if pref, ok := s.loadPreference(ctx, sessionID); ok {
		if s.catalog.Catalog().Has(pref.Code) {
			logger.Debug("Resolved currency from stored preference",
				slog.String("code", pref.Code),
				slog.String("source", string(pref.Source)))
			return pref
		}
		logger.Warn("Stored preference not in catalog, re-resolving", slog.String("code", pref.Code))
	}

	if !s.autoDetectEnabled(ctx, sessionID) {
		logger.Debug("Auto-detection disabled, using default currency", slog.String("code", s.defaultCode))
		return domain.UserCurrencyPreference{
			Code:   s.defaultCode,
			Source: domain.PreferenceSourceAuto,
			SetAt:  s.now(),
		}
	}

	geoResult := s.geo.ResolveCountry(ctx, hints)
	code, ok := domain.CurrencyForCountry(geoResult.CountryCode)
	if !ok || !s.catalog.Catalog().Has(code) {
		code = s.defaultCode
	}

	pref := domain.UserCurrencyPreference{
		Code:   code,
		Source: domain.PreferenceSourceAuto,
		SetAt:  s.now(),
	}
	s.storePreference(ctx, sessionID, pref)
	logger.Info("Resolved currency via geolocation",
		slog.String("code", code),
		slog.String("country", geoResult.CountryCode),
		slog.String("method", string(geoResult.Method)))
	return pref
}

// ChangeCurrency sets an explicit preference for the session. The previous
// preference survives untouched when code is unknown.
func (s *ResolverService) ChangeCurrency(ctx context.Context, sessionID, code string) (domain.UserCurrencyPreference, error) {
	code = strings.ToUpper(code)
	if !s.catalog.Catalog().Has(code) {
		return domain.UserCurrencyPreference{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, code)
	}

	pref := domain.UserCurrencyPreference{
		Code:   code,
		Source: domain.PreferenceSourceExplicit,
		SetAt:  s.now(),
	}
	raw, err := json.Marshal(pref)
	if err != nil {
		return domain.UserCurrencyPreference{}, fmt.Errorf("failed to encode preference: %w", err)
	}
	if err := s.store.Set(ctx, sessionID, ports.KeyPreferredCurrency, string(raw)); err != nil {
		return domain.UserCurrencyPreference{}, fmt.Errorf("failed to persist preference: %w", err)
	}

	s.mu.Lock()
	s.resolved[sessionID] = pref
	s.mu.Unlock()

	metrics.PreferenceChanges.WithLabelValues(string(domain.PreferenceSourceExplicit)).Inc()
	s.logger.Info("Currency preference changed",
		slog.String("session_id", sessionID),
		slog.String("code", code))
	return pref, nil
}

// CurrentCurrency returns the already-resolved preference without running
// the resolution chain.
func (s *ResolverService) CurrentCurrency(_ context.Context, sessionID string) (domain.UserCurrencyPreference, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pref, ok := s.resolved[sessionID]
	return pref, ok
}

// ResetPreference removes the stored preference and resolved state so the
// next Resolve runs the chain again.
func (s *ResolverService) ResetPreference(ctx context.Context, sessionID string) error {
	if err := s.store.Remove(ctx, sessionID, ports.KeyPreferredCurrency); err != nil {
		return fmt.Errorf("failed to remove stored preference: %w", err)
	}
	s.mu.Lock()
	delete(s.resolved, sessionID)
	s.mu.Unlock()
	s.logger.Info("Currency preference reset", slog.String("session_id", sessionID))
	return nil
}

// SetAutoDetect persists the session's auto-detection flag.
func (s *ResolverService) SetAutoDetect(ctx context.Context, sessionID string, enabled bool) error {
	if err := s.store.Set(ctx, sessionID, ports.KeyAutoDetect, strconv.FormatBool(enabled)); err != nil {
		return fmt.Errorf("failed to persist auto-detect flag: %w", err)
	}
	return nil
}

// loadPreference reads and decodes the stored preference for the session.
func (s *ResolverService) loadPreference(ctx context.Context, sessionID string) (domain.UserCurrencyPreference, bool) {
	raw, ok, err := s.store.Get(ctx, sessionID, ports.KeyPreferredCurrency)
	if err != nil {
		s.logger.Warn("Failed to read stored preference", slog.String("error", err.Error()))
		return domain.UserCurrencyPreference{}, false
	}
	if !ok {
		return domain.UserCurrencyPreference{}, false
	}
	var pref domain.UserCurrencyPreference
	if err := json.Unmarshal([]byte(raw), &pref); err != nil {
		s.logger.Warn("Stored preference is corrupt, ignoring", slog.String("error", err.Error()))
		return domain.UserCurrencyPreference{}, false
	}
	return pref, true
}

// autoDetectEnabled reads the persisted flag; it defaults to true.
func (s *ResolverService) autoDetectEnabled(ctx context.Context, sessionID string) bool {
	raw, ok, err := s.store.Get(ctx, sessionID, ports.KeyAutoDetect)
	if err != nil {
		s.logger.Warn("Failed to read auto-detect flag", slog.String("error", err.Error()))
		return true
	}
	if !ok {
		return true
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return enabled
}

// storePreference persists an auto-derived preference; failures are logged
// and absorbed since the in-memory resolution already succeeded.
func (s *ResolverService) storePreference(ctx context.Context, sessionID string, pref domain.UserCurrencyPreference) {
	raw, err := json.Marshal(pref)
	if err != nil {
		s.logger.Warn("Failed to encode preference", slog.String("error", err.Error()))
		return
	}
	if err := s.store.Set(ctx, sessionID, ports.KeyPreferredCurrency, string(raw)); err != nil {
		s.logger.Warn("Failed to persist preference", slog.String("error", err.Error()))
		return
	}
	metrics.PreferenceChanges.WithLabelValues(string(domain.PreferenceSourceAuto)).Inc()
}
