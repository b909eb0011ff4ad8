package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/learnsphere/currency_backend/cmd/docs"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/middleware"
	"github.com/learnsphere/currency_backend/pkg/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *ports.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// route registrations. Every API request is session-scoped and rate limited.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *ports.ServiceContainer,
) {
	v1 := r.Group("/api/v1",
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "X-Timezone"},
			AllowCredentials: true,
		}),
		middleware.SessionMiddleware(cfg.SessionSecret, cfg.IsProduction),
	)

	if limiterInstance, err := middleware.NewIPRateLimiter(cfg.RateLimit); err == nil {
		v1.Use(middleware.RateLimit(limiterInstance))
	} else {
		slog.Warn("Invalid rate limit config, running unlimited", slog.String("error", err.Error()))
	}

	RegisterCurrencyRoutes(v1, cfg, services)
	RegisterPreferenceRoutes(v1, services)
	RegisterPricingRoutes(v1, services)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// geoHintsFromRequest extracts the fallback-chain signals from the request:
// client IP, the Accept-Language header, and the IANA timezone the front end
// reports in X-Timezone.
func geoHintsFromRequest(c *gin.Context) ports.GeoHints {
	return ports.GeoHints{
		IP:             c.ClientIP(),
		AcceptLanguage: c.GetHeader("Accept-Language"),
		Timezone:       c.GetHeader("X-Timezone"),
	}
}
