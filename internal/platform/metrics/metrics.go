package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors for the currency subsystem. All registration happens through
// promauto against the default registry; the /metrics endpoint exposes it.
var (
	// CatalogFetches counts catalog fetch outcomes (result: success,
	// retry_exhausted, validation_failed).
	CatalogFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "currency_catalog_fetch_total",
		Help: "Outcomes of currency catalog fetch attempts.",
	}, []string{"result"})

	// RateRefreshes counts exchange-rate refresh outcomes (result: success,
	// failure, coalesced).
	RateRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "currency_rate_refresh_total",
		Help: "Outcomes of exchange-rate refresh attempts.",
	}, []string{"result"})

	// SnapshotAgeSeconds tracks the age of the snapshot served by the last
	// GetRates call.
	SnapshotAgeSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "currency_snapshot_age_seconds",
		Help: "Age of the exchange-rate snapshot most recently served.",
	})

	// GeoResolutions counts country resolutions by fallback method
	// (remote, locale, timezone, default).
	GeoResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "currency_geo_resolution_total",
		Help: "Country resolutions by fallback chain method.",
	}, []string{"method"})

	// PreferenceChanges counts preference writes by source (explicit, auto).
	PreferenceChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "currency_preference_change_total",
		Help: "Currency preference writes by source.",
	}, []string{"source"})
)
