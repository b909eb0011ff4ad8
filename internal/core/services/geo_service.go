package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/platform/metrics"
	"golang.org/x/text/language"
)

const defaultGeoTimeout = 5 * time.Second

// GeoService resolves a two-letter country code for a session. It never
// fails: each step of the chain is tried once, and the last rung is a fixed
// default country.
type GeoService struct {
	client         ports.GeoClient
	logger         *slog.Logger
	defaultCountry string
	lookupTimeout  time.Duration
}

// NewGeoService creates a geolocation service. A zero lookupTimeout falls
// back to 5s.
func NewGeoService(client ports.GeoClient, logger *slog.Logger, defaultCountry string, lookupTimeout time.Duration) *GeoService {
	if lookupTimeout <= 0 {
		lookupTimeout = defaultGeoTimeout
	}
	return &GeoService{
		client:         client,
		logger:         logger,
		defaultCountry: defaultCountry,
		lookupTimeout:  lookupTimeout,
	}
}

// ResolveCountry walks the fallback chain: remote IP lookup, Accept-Language
// region subtag, timezone table, static default. A step is only attempted
// when the previous one produced no usable country code, and no step is
// retried.
func (s *GeoService) ResolveCountry(ctx context.Context, hints ports.GeoHints) domain.GeoResolutionResult {
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	code, err := s.client.LookupCountry(lookupCtx, hints.IP)
	cancel()
	if err == nil && code != "" {
		metrics.GeoResolutions.WithLabelValues(string(domain.GeoMethodRemote)).Inc()
		return domain.GeoResolutionResult{CountryCode: code, Method: domain.GeoMethodRemote}
	}
	if err != nil {
		s.logger.Debug("Remote geolocation failed, falling back to locale", slog.String("error", err.Error()))
	}

	if code := countryFromLocale(hints.AcceptLanguage); code != "" {
		metrics.GeoResolutions.WithLabelValues(string(domain.GeoMethodLocale)).Inc()
		return domain.GeoResolutionResult{CountryCode: code, Method: domain.GeoMethodLocale}
	}

	if code, ok := domain.CountryForTimezone(hints.Timezone); ok {
		metrics.GeoResolutions.WithLabelValues(string(domain.GeoMethodTimezone)).Inc()
		return domain.GeoResolutionResult{CountryCode: code, Method: domain.GeoMethodTimezone}
	}

	metrics.GeoResolutions.WithLabelValues(string(domain.GeoMethodDefault)).Inc()
	return domain.GeoResolutionResult{CountryCode: s.defaultCountry, Method: domain.GeoMethodDefault}
}

// countryFromLocale extracts an explicit region subtag from an
// Accept-Language header or a bare language tag ("en-IN", "pt_BR").
// Inferred regions (e.g. "en" guessing US) are not usable: only a region the
// session actually sent counts.
func countryFromLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}

	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil {
		tag, parseErr := language.Parse(strings.ReplaceAll(locale, "_", "-"))
		if parseErr != nil {
			return ""
		}
		tags = []language.Tag{tag}
	}

	for _, tag := range tags {
		region, conf := tag.Region()
		if conf != language.Exact || !region.IsCountry() {
			continue
		}
		return region.String()
	}
	return ""
}
