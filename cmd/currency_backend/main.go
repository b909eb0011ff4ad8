package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/learnsphere/currency_backend/internal/adapters/client/catalogapi"
	"github.com/learnsphere/currency_backend/internal/adapters/client/geoapi"
	"github.com/learnsphere/currency_backend/internal/adapters/client/ratesapi"
	storagememory "github.com/learnsphere/currency_backend/internal/adapters/storage/memory"
	storagepgsql "github.com/learnsphere/currency_backend/internal/adapters/storage/pgsql"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/core/services"
	"github.com/learnsphere/currency_backend/internal/handlers"
	"github.com/learnsphere/currency_backend/internal/middleware"
	"github.com/learnsphere/currency_backend/pkg/config"
	"github.com/learnsphere/currency_backend/pkg/database"
	"golang.org/x/text/language"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Currency Backend API
// @version 1.0
// @description Display-currency resolution, exchange rates, and price formatting for the learning platform front end.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The preference/snapshot store: Postgres when configured, otherwise
	// in-memory (currency resolution still works, it just forgets on restart).
	var store ports.KeyValueStore = storagememory.NewStore()
	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			logger.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		store = storagepgsql.NewStore(dbPool)
	} else {
		logger.Warn("No database configured, using in-memory preference store")
	}

	displayLocale, err := language.Parse(cfg.DisplayLocale)
	if err != nil {
		logger.Warn("Invalid DISPLAY_LOCALE, defaulting to English", slog.String("value", cfg.DisplayLocale))
		displayLocale = language.English
	}

	container := services.NewContainer(services.ContainerDeps{
		CatalogClient:   catalogapi.New(cfg.CatalogServiceURL, cfg.HTTPTimeout),
		RateClient:      ratesapi.New(cfg.RatesProxyURL, cfg.HTTPTimeout),
		GeoClient:       geoapi.New(cfg.GeoProxyURL, cfg.GeoTimeout),
		Store:           store,
		Logger:          logger,
		DefaultCurrency: cfg.DefaultCurrency,
		DefaultCountry:  cfg.DefaultCountry,
		DisplayLocale:   displayLocale,
		GeoTimeout:      cfg.GeoTimeout,
		RateTTL:         cfg.RateTTL,
		RefreshInterval: cfg.RefreshInterval,
	})

	// Warm up: restore the persisted snapshot, then try the remote catalog
	// and rates once. Both failures are absorbed; the bootstrap table keeps
	// the API serving.
	if rateCache, ok := container.RateCache.(*services.RateCacheService); ok {
		rateCache.LoadPersisted(ctx)
	}
	if _, err := container.Catalog.FetchCatalog(ctx); err != nil {
		logger.Warn("Initial catalog fetch failed, serving bootstrap table", slog.String("error", err.Error()))
	}
	if err := container.RateCache.Refresh(ctx); err != nil {
		logger.Warn("Initial rate refresh failed", slog.String("error", err.Error()))
	}

	go container.RateCache.StartRefreshLoop(ctx)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies the KV-store schema using a temporary database/sql
// connection via the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	logger.Info("Database migrations applied")
	return nil
}
