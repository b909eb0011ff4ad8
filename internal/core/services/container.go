package services

import (
	"log/slog"
	"time"

	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"golang.org/x/text/language"
)

// ContainerDeps carries everything the service container needs: the outbound
// adapters plus the knobs main reads from configuration.
type ContainerDeps struct {
	CatalogClient ports.CatalogClient
	RateClient    ports.RateClient
	GeoClient     ports.GeoClient
	Store         ports.KeyValueStore
	Logger        *slog.Logger

	DefaultCurrency string
	DefaultCountry  string
	DisplayLocale   language.Tag
	GeoTimeout      time.Duration
	RateTTL         time.Duration
	RefreshInterval time.Duration
}

// NewContainer wires the five subsystem services together.
func NewContainer(deps ContainerDeps) *ports.ServiceContainer {
	catalog := NewCatalogService(deps.CatalogClient, deps.Logger)
	geo := NewGeoService(deps.GeoClient, deps.Logger, deps.DefaultCountry, deps.GeoTimeout)

	rateOpts := []RateCacheOption{}
	if deps.RateTTL > 0 {
		rateOpts = append(rateOpts, WithRateTTL(deps.RateTTL))
	}
	if deps.RefreshInterval > 0 {
		rateOpts = append(rateOpts, WithRefreshInterval(deps.RefreshInterval))
	}
	rateCache := NewRateCacheService(deps.RateClient, deps.Store, deps.Logger, domain.BaseCurrencyCode, rateOpts...)

	resolver := NewResolverService(catalog, geo, deps.Store, deps.Logger, deps.DefaultCurrency)
	pricing := NewPricingService(catalog, rateCache, deps.Logger, deps.DisplayLocale)

	return &ports.ServiceContainer{
		Catalog:   catalog,
		Geo:       geo,
		RateCache: rateCache,
		Resolver:  resolver,
		Pricing:   pricing,
	}
}

// Compile-time checks that the concrete services satisfy their facades.
var (
	_ ports.CatalogSvcFacade   = (*CatalogService)(nil)
	_ ports.GeoSvcFacade       = (*GeoService)(nil)
	_ ports.RateCacheSvcFacade = (*RateCacheService)(nil)
	_ ports.ResolverSvcFacade  = (*ResolverService)(nil)
	_ ports.PricingSvcFacade   = (*PricingService)(nil)
)
