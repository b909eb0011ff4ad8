package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/handlers"
	"github.com/learnsphere/currency_backend/internal/middleware"
	"github.com/learnsphere/currency_backend/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateCacheSvcFacade ---
type MockRateCacheFacade struct {
	mock.Mock
}

func (m *MockRateCacheFacade) GetRates(ctx context.Context) domain.ExchangeRateSnapshot {
	args := m.Called(ctx)
	return args.Get(0).(domain.ExchangeRateSnapshot)
}

func (m *MockRateCacheFacade) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRateCacheFacade) StartRefreshLoop(ctx context.Context) {
	m.Called(ctx)
}

// --- Test Suite ---
type CurrencyHandlerTestSuite struct {
	suite.Suite
	mockRateCache *MockRateCacheFacade
	router        *gin.Engine
}

func (suite *CurrencyHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockRateCache = new(MockRateCacheFacade)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.SessionMiddleware(testSessionSecret, false))
	handlers.RegisterCurrencyRoutes(v1, &config.Config{RateTTL: 6 * time.Hour}, &ports.ServiceContainer{
		Catalog:   testCatalog(),
		RateCache: suite.mockRateCache,
	})
}

func (suite *CurrencyHandlerTestSuite) perform(method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *CurrencyHandlerTestSuite) TestListCurrencies() {
	w := suite.perform(http.MethodGet, "/api/v1/currencies")

	suite.Equal(http.StatusOK, w.Code)
	var resp []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.NotEmpty(resp)
	codes := make(map[string]bool, len(resp))
	for _, entry := range resp {
		codes[entry["code"].(string)] = true
	}
	suite.True(codes["USD"])
	suite.True(codes["INR"])
}

func (suite *CurrencyHandlerTestSuite) TestGetCurrencyByCode() {
	w := suite.perform(http.MethodGet, "/api/v1/currencies/usd")

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("USD", resp["code"])
	suite.Equal("$", resp["symbol"])
}

func (suite *CurrencyHandlerTestSuite) TestGetCurrencyByCode_NotFound() {
	w := suite.perform(http.MethodGet, "/api/v1/currencies/XXX")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *CurrencyHandlerTestSuite) TestGetRates() {
	snapshot := domain.NewSnapshot("USD", map[string]decimal.Decimal{
		"EUR": decimal.NewFromFloat(0.91),
	}, time.Now(), domain.SnapshotSourceRemote)
	suite.mockRateCache.On("GetRates", mock.Anything).Return(snapshot).Once()

	w := suite.perform(http.MethodGet, "/api/v1/rates")

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("USD", resp["base"])
	suite.Equal("remote", resp["source"])
	suite.Equal(false, resp["stale"])
}

func (suite *CurrencyHandlerTestSuite) TestGetRates_MarksStaleSnapshot() {
	snapshot := domain.NewSnapshot("USD", map[string]decimal.Decimal{
		"EUR": decimal.NewFromFloat(0.91),
	}, time.Now().Add(-7*time.Hour), domain.SnapshotSourceRemote)
	suite.mockRateCache.On("GetRates", mock.Anything).Return(snapshot).Once()

	w := suite.perform(http.MethodGet, "/api/v1/rates")

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(true, resp["stale"])
}

func (suite *CurrencyHandlerTestSuite) TestRefreshRates_AcceptedAndScheduled() {
	refreshed := make(chan struct{})
	suite.mockRateCache.On("Refresh", mock.Anything).
		Run(func(mock.Arguments) { close(refreshed) }).
		Return(nil).Once()

	w := suite.perform(http.MethodPost, "/api/v1/rates/refresh")

	suite.Equal(http.StatusAccepted, w.Code)
	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		suite.Fail("refresh was never scheduled")
	}
}

func TestCurrencyHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyHandlerTestSuite))
}
