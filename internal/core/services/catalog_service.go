package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/learnsphere/currency_backend/internal/apperrors"
	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

const (
	catalogMaxAttempts = 3
	catalogBackoffBase = time.Second
)

// CatalogService owns the in-memory currency catalog. It starts on the
// static bootstrap table and replaces it wholesale whenever a remote fetch
// succeeds. Reads never observe a half-updated catalog.
type CatalogService struct {
	client   ports.CatalogClient
	logger   *slog.Logger
	validate *validator.Validate

	maxAttempts int
	backoffBase time.Duration

	mu      sync.RWMutex
	current *domain.Catalog

	now func() time.Time
}

// CatalogOption customizes a CatalogService.
type CatalogOption func(*CatalogService)

// WithCatalogBackoff overrides the retry backoff base, mainly for tests.
func WithCatalogBackoff(base time.Duration) CatalogOption {
	return func(s *CatalogService) {
		s.backoffBase = base
	}
}

// WithCatalogClock overrides the clock, mainly for tests.
func WithCatalogClock(now func() time.Time) CatalogOption {
	return func(s *CatalogService) {
		s.now = now
	}
}

// NewCatalogService creates a catalog service seeded with the bootstrap table.
func NewCatalogService(client ports.CatalogClient, logger *slog.Logger, opts ...CatalogOption) *CatalogService {
	s := &CatalogService{
		client:      client,
		logger:      logger,
		validate:    validator.New(),
		maxAttempts: catalogMaxAttempts,
		backoffBase: catalogBackoffBase,
		current:     domain.BootstrapCatalog(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchCatalog fetches, validates, and installs the remote catalog. Only
// transient (network/timeout) failures are retried, with exponential backoff;
// a schema-validation failure aborts the loop immediately. When all attempts
// fail, the last successfully fetched catalog is returned if one exists,
// otherwise apperrors.ErrCatalogUnavailable and the caller continues on the
// bootstrap table.
func (s *CatalogService) FetchCatalog(ctx context.Context) (*domain.Catalog, error) {
	var lastErr error

retry:
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := s.backoffBase * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				lastErr = ctx.Err()
				break retry
			}
		}

		entries, err := s.client.FetchCurrencies(ctx)
		if err != nil {
			lastErr = err
			if errors.Is(err, apperrors.ErrValidation) {
				s.logger.Warn("Catalog response failed validation, not retrying", slog.String("error", err.Error()))
				metrics.CatalogFetches.WithLabelValues("validation_failed").Inc()
				break retry
			}
			s.logger.Warn("Catalog fetch attempt failed",
				slog.Int("attempt", attempt+1),
				slog.String("error", err.Error()))
			continue
		}

		catalog, err := s.buildCatalog(entries)
		if err != nil {
			lastErr = err
			s.logger.Warn("Catalog entries failed validation, not retrying", slog.String("error", err.Error()))
			metrics.CatalogFetches.WithLabelValues("validation_failed").Inc()
			break retry
		}

		s.mu.Lock()
		s.current = catalog
		s.mu.Unlock()

		metrics.CatalogFetches.WithLabelValues("success").Inc()
		s.logger.Info("Currency catalog updated", slog.Int("currencies", catalog.Len()))
		return catalog, nil
	}

	metrics.CatalogFetches.WithLabelValues("retry_exhausted").Inc()

	current := s.Catalog()
	if current.Remote() {
		s.logger.Warn("Catalog fetch exhausted retries, serving last good catalog",
			slog.String("error", lastErr.Error()),
			slog.Time("catalog_fetched_at", current.FetchedAt()))
		return current, nil
	}
	return nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogUnavailable, lastErr)
}

// buildCatalog validates every entry against the strict schema and filters
// out inactive ones. Any invalid entry rejects the whole response.
func (s *CatalogService) buildCatalog(entries []ports.CatalogEntry) (*domain.Catalog, error) {
	currencies := make([]domain.Currency, 0, len(entries))
	for _, entry := range entries {
		if err := s.validate.Struct(entry); err != nil {
			return nil, fmt.Errorf("%w: catalog entry %q rejected: %v", apperrors.ErrValidation, entry.CurrencyCode, err)
		}
		if !entry.IsActive {
			continue
		}
		currencies = append(currencies, domain.Currency{
			Code:       strings.ToUpper(entry.CurrencyCode),
			Symbol:     entry.Symbol,
			Name:       entry.Country,
			RateToBase: decimal.NewFromFloat(entry.ValueWrtUSD),
		})
	}
	if len(currencies) == 0 {
		return nil, fmt.Errorf("%w: catalog response contained no active currencies", apperrors.ErrValidation)
	}
	return domain.NewCatalog(currencies, s.now(), true), nil
}

// Catalog returns the current catalog.
func (s *CatalogService) Catalog() *domain.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// GetCurrency returns the currency for code from the current catalog.
func (s *CatalogService) GetCurrency(code string) (domain.Currency, error) {
	currency, ok := s.Catalog().Get(strings.ToUpper(code))
	if !ok {
		return domain.Currency{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, code)
	}
	return currency, nil
}

// ListCurrencies returns all currencies in the current catalog.
func (s *CatalogService) ListCurrencies() []domain.Currency {
	return s.Catalog().List()
}
