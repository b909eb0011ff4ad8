package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// DatabaseURL enables the Postgres-backed preference/snapshot store.
	// Empty falls back to in-memory storage (preferences last for the
	// process lifetime only).
	DatabaseURL string

	// Remote service endpoints. RatesProxyURL and GeoProxyURL point at the
	// same-origin proxy that holds the upstream credentials.
	CatalogServiceURL string
	RatesProxyURL     string
	GeoProxyURL       string

	// Network behavior.
	HTTPTimeout time.Duration
	GeoTimeout  time.Duration

	// Cache behavior.
	RateTTL         time.Duration
	RefreshInterval time.Duration

	// Resolution defaults.
	DefaultCurrency string
	DefaultCountry  string
	DisplayLocale   string

	// SessionSecret signs the session-ID cookie.
	SessionSecret string

	// RateLimit is the per-IP limit in ulule format, e.g. "300-M".
	RateLimit string

	// CORSAllowOrigins lists the front-end origins allowed to call this API.
	CORSAllowOrigins []string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("CATALOG_SERVICE_URL", "http://localhost:9001")
	viper.SetDefault("RATES_PROXY_URL", "http://localhost:9002")
	viper.SetDefault("GEO_PROXY_URL", "http://localhost:9002")
	viper.SetDefault("HTTP_TIMEOUT", "8s")
	viper.SetDefault("GEO_TIMEOUT", "5s")
	viper.SetDefault("RATE_TTL", "6h")
	viper.SetDefault("RATE_REFRESH_INTERVAL", "1h")
	viper.SetDefault("DEFAULT_CURRENCY", "USD")
	viper.SetDefault("DEFAULT_COUNTRY", "US")
	viper.SetDefault("DISPLAY_LOCALE", "en")
	viper.SetDefault("SESSION_SECRET", "insecure-dev-session-secret-change-me")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:              viper.GetString("PORT"),
		IsProduction:      viper.GetBool("IS_PRODUCTION"),
		DatabaseURL:       viper.GetString("PGSQL_URL"),
		CatalogServiceURL: viper.GetString("CATALOG_SERVICE_URL"),
		RatesProxyURL:     viper.GetString("RATES_PROXY_URL"),
		GeoProxyURL:       viper.GetString("GEO_PROXY_URL"),
		DefaultCurrency:   viper.GetString("DEFAULT_CURRENCY"),
		DefaultCountry:    viper.GetString("DEFAULT_COUNTRY"),
		DisplayLocale:     viper.GetString("DISPLAY_LOCALE"),
		SessionSecret:     viper.GetString("SESSION_SECRET"),
		RateLimit:         viper.GetString("RATE_LIMIT"),
		CORSAllowOrigins:  viper.GetStringSlice("CORS_ALLOW_ORIGINS"),
	}

	cfg.HTTPTimeout = parseDurationOr("HTTP_TIMEOUT", 8*time.Second)
	cfg.GeoTimeout = parseDurationOr("GEO_TIMEOUT", 5*time.Second)
	cfg.RateTTL = parseDurationOr("RATE_TTL", 6*time.Hour)
	cfg.RefreshInterval = parseDurationOr("RATE_REFRESH_INTERVAL", time.Hour)

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL not set. Preferences will not survive restarts.")
	}
	if !cfg.IsProduction && cfg.SessionSecret == "insecure-dev-session-secret-change-me" {
		log.Println("Warning: SESSION_SECRET is using the insecure default. THIS IS NOT FOR PRODUCTION.")
	}

	return cfg, nil
}

// parseDurationOr reads a duration key, logging and defaulting on bad input.
func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
