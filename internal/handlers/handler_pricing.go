package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/dto"
	"github.com/learnsphere/currency_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// pricingHandler handles HTTP requests for price conversion and formatting.
type pricingHandler struct {
	pricing  ports.PricingSvcFacade
	resolver ports.ResolverSvcFacade
}

func newPricingHandler(pricing ports.PricingSvcFacade, resolver ports.ResolverSvcFacade) *pricingHandler {
	return &pricingHandler{
		pricing:  pricing,
		resolver: resolver,
	}
}

// RegisterPricingRoutes registers conversion and formatting routes.
func RegisterPricingRoutes(rg *gin.RouterGroup, services *ports.ServiceContainer) {
	h := newPricingHandler(services.Pricing, services.Resolver)

	price := rg.Group("/price")
	{
		price.POST("/convert", h.convertPrice)
		price.POST("/format", h.formatPrice)
	}
}

// amountOrZero turns an optional, possibly garbage amount into a decimal.
// Absent, NaN, and infinite amounts degrade to zero: a broken price must
// render as a free course, never break the page.
func amountOrZero(amount *float64) decimal.Decimal {
	if amount == nil || math.IsNaN(*amount) || math.IsInf(*amount, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*amount)
}

// targetCode picks the explicit code or falls back to the session's
// resolved currency.
func (h *pricingHandler) targetCode(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	sessionID, ok := middleware.GetSessionIDFromContext(c.Request.Context())
	if !ok {
		return domain.BaseCurrencyCode
	}
	pref, err := h.resolver.Resolve(c.Request.Context(), sessionID, geoHintsFromRequest(c))
	if err != nil {
		return domain.BaseCurrencyCode
	}
	return pref.Code
}

// convertPrice godoc
// @Summary Convert a base-currency amount
// @Description Converts an amount in the base currency to the target (or the session's resolved) currency, rounded to 2 decimals. Unknown codes convert at 1.0; this endpoint never fails.
// @Tags pricing
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertRequest true "Conversion request"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /price/convert [post]
func (h *pricingHandler) convertPrice(c *gin.Context) {
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	amount := amountOrZero(req.Amount)

	// From converts back to the base currency; otherwise base to target.
	if req.From != "" {
		converted := h.pricing.ConvertFrom(c.Request.Context(), amount, req.From)
		c.JSON(http.StatusOK, dto.ConvertResponse{Amount: converted, Code: domain.BaseCurrencyCode})
		return
	}

	code := h.targetCode(c, req.Code)
	converted := h.pricing.Convert(c.Request.Context(), amount, code)
	c.JSON(http.StatusOK, dto.ConvertResponse{Amount: converted, Code: code})
}

// formatPrice godoc
// @Summary Format a base-currency amount for display
// @Description Converts and renders a display string in the target (or the session's resolved) currency. Zero renders as "Free"; invalid amounts render as a zero-amount display.
// @Tags pricing
// @Accept json
// @Produce json
// @Param format body dto.FormatRequest true "Format request"
// @Success 200 {object} dto.FormatResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /price/format [post]
func (h *pricingHandler) formatPrice(c *gin.Context) {
	var req dto.FormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	code := h.targetCode(c, req.Code)
	display := h.pricing.Format(c.Request.Context(), amountOrZero(req.Amount), ports.FormatOptions{
		Code:     code,
		Decimals: req.Decimals,
		ShowCode: req.ShowCode,
	})
	c.JSON(http.StatusOK, dto.FormatResponse{Display: display, Code: code})
}
