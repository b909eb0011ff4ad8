package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnsphere/currency_backend/internal/apperrors"
	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/dto"
	"github.com/learnsphere/currency_backend/internal/middleware"
)

// preferenceHandler handles HTTP requests for currency resolution and the
// per-session preference.
type preferenceHandler struct {
	resolver       ports.ResolverSvcFacade
	catalogService ports.CatalogSvcFacade
}

func newPreferenceHandler(resolver ports.ResolverSvcFacade, catalog ports.CatalogSvcFacade) *preferenceHandler {
	return &preferenceHandler{
		resolver:       resolver,
		catalogService: catalog,
	}
}

// RegisterPreferenceRoutes registers resolution and preference routes.
func RegisterPreferenceRoutes(rg *gin.RouterGroup, services *ports.ServiceContainer) {
	h := newPreferenceHandler(services.Resolver, services.Catalog)

	currency := rg.Group("/currency")
	{
		currency.GET("/resolve", h.resolveCurrency)
		currency.PUT("", h.changeCurrency)
		currency.DELETE("", h.resetPreference)
		currency.PUT("/auto-detect", h.setAutoDetect)
	}
}

// preferenceResponse builds the response DTO with the catalog entry attached.
func (h *preferenceHandler) preferenceResponse(pref domain.UserCurrencyPreference) dto.PreferenceResponse {
	if currency, err := h.catalogService.GetCurrency(pref.Code); err == nil {
		return dto.ToPreferenceResponse(pref, &currency)
	}
	return dto.ToPreferenceResponse(pref, nil)
}

// resolveCurrency godoc
// @Summary Resolve the session's display currency
// @Description Returns the active currency, resolving it on first access from the stored preference, geolocation, or the default. Never fails a render: all fallbacks are internal.
// @Tags currency
// @Produce json
// @Param Accept-Language header string false "Locale hint"
// @Param X-Timezone header string false "IANA timezone hint"
// @Success 200 {object} dto.PreferenceResponse
// @Router /currency/resolve [get]
func (h *preferenceHandler) resolveCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c.Request.Context())
	if !ok {
		logger.Error("Session ID missing from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not established"})
		return
	}

	pref, err := h.resolver.Resolve(c.Request.Context(), sessionID, geoHintsFromRequest(c))
	if err != nil {
		// Only ctx cancellation reaches here; the chain itself never fails.
		logger.Warn("Resolution interrupted", slog.String("error", err.Error()))
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Resolution interrupted"})
		return
	}

	c.JSON(http.StatusOK, h.preferenceResponse(pref))
}

// changeCurrency godoc
// @Summary Set an explicit currency preference
// @Description Persists the user's currency choice. Unknown codes are rejected and the previous preference is left unchanged.
// @Tags currency
// @Accept json
// @Produce json
// @Param preference body dto.ChangeCurrencyRequest true "Currency code"
// @Success 200 {object} dto.PreferenceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Unknown currency code"
// @Router /currency [put]
func (h *preferenceHandler) changeCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c.Request.Context())
	if !ok {
		logger.Error("Session ID missing from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not established"})
		return
	}

	var req dto.ChangeCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for changeCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	pref, err := h.resolver.ChangeCurrency(c.Request.Context(), sessionID, req.Code)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownCurrency) {
			logger.Warn("Unknown currency requested", slog.String("code", req.Code))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unknown currency code: " + req.Code})
			return
		}
		logger.Error("Failed to change currency", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change currency"})
		return
	}

	c.JSON(http.StatusOK, h.preferenceResponse(pref))
}

// resetPreference godoc
// @Summary Reset the stored currency preference
// @Description Removes the stored preference; the next resolution runs the full chain again.
// @Tags currency
// @Success 204
// @Router /currency [delete]
func (h *preferenceHandler) resetPreference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c.Request.Context())
	if !ok {
		logger.Error("Session ID missing from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not established"})
		return
	}

	if err := h.resolver.ResetPreference(c.Request.Context(), sessionID); err != nil {
		logger.Error("Failed to reset preference", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset preference"})
		return
	}
	c.Status(http.StatusNoContent)
}

// setAutoDetect godoc
// @Summary Toggle currency auto-detection
// @Description Persists the session's auto-detection flag (default true).
// @Tags currency
// @Accept json
// @Param flag body dto.AutoDetectRequest true "Auto-detect flag"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /currency/auto-detect [put]
func (h *preferenceHandler) setAutoDetect(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c.Request.Context())
	if !ok {
		logger.Error("Session ID missing from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not established"})
		return
	}

	var req dto.AutoDetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for setAutoDetect", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.resolver.SetAutoDetect(c.Request.Context(), sessionID, *req.Enabled); err != nil {
		logger.Error("Failed to set auto-detect flag", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update auto-detection"})
		return
	}
	c.Status(http.StatusNoContent)
}
