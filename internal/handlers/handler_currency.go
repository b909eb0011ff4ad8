package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnsphere/currency_backend/internal/apperrors"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/dto"
	"github.com/learnsphere/currency_backend/internal/middleware"
	"github.com/learnsphere/currency_backend/pkg/config"
)

// currencyHandler handles HTTP requests for the currency catalog and the
// exchange-rate snapshot.
type currencyHandler struct {
	catalogService ports.CatalogSvcFacade
	rateCache      ports.RateCacheSvcFacade
	rateTTL        time.Duration
}

func newCurrencyHandler(catalog ports.CatalogSvcFacade, rateCache ports.RateCacheSvcFacade, rateTTL time.Duration) *currencyHandler {
	return &currencyHandler{
		catalogService: catalog,
		rateCache:      rateCache,
		rateTTL:        rateTTL,
	}
}

// RegisterCurrencyRoutes registers catalog and rate routes.
func RegisterCurrencyRoutes(rg *gin.RouterGroup, cfg *config.Config, services *ports.ServiceContainer) {
	h := newCurrencyHandler(services.Catalog, services.RateCache, cfg.RateTTL)

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrencyByCode)
	}
	rates := rg.Group("/rates")
	{
		rates.GET("", h.getRates)
		rates.POST("/refresh", h.refreshRates)
	}
}

// listCurrencies godoc
// @Summary List available currencies
// @Description Retrieves all currencies in the current catalog
// @Tags currencies
// @Produce json
// @Success 200 {array} dto.CurrencyResponse
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies := h.catalogService.ListCurrencies()
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// getCurrencyByCode godoc
// @Summary Get a currency by code
// @Description Retrieves details for a specific currency by its 3-letter code
// @Tags currencies
// @Produce json
// @Param code path string true "Currency code (3 letters)"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} map[string]string "Currency not found"
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	currency, err := h.catalogService.GetCurrency(code)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownCurrency) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
			return
		}
		logger.Error("Failed to get currency", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currency"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// getRates godoc
// @Summary Get the current exchange-rate snapshot
// @Description Returns the cached rate table. A stale snapshot is returned immediately while a refresh runs in the background.
// @Tags rates
// @Produce json
// @Success 200 {object} dto.RatesResponse
// @Router /rates [get]
func (h *currencyHandler) getRates(c *gin.Context) {
	snapshot := h.rateCache.GetRates(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToRatesResponse(snapshot, time.Now(), h.rateTTL))
}

// refreshRates godoc
// @Summary Trigger an exchange-rate refresh
// @Description Kicks off a refresh and returns immediately; concurrent refreshes coalesce onto one outbound request.
// @Tags rates
// @Success 202 {object} map[string]string
// @Router /rates/refresh [post]
func (h *currencyHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// Fire-and-forget: the refresh outlives the request on purpose, so it
	// runs on a fresh context. Failures are logged and absorbed.
	go func() {
		if err := h.rateCache.Refresh(context.Background()); err != nil {
			logger.Warn("Requested rate refresh failed", slog.String("error", err.Error()))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
}
