package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/learnsphere/currency_backend/internal/apperrors"
	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock CatalogClient ---
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) FetchCurrencies(ctx context.Context) ([]ports.CatalogEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.CatalogEntry), args.Error(1)
}

// --- Test Suite ---
type CatalogServiceTestSuite struct {
	suite.Suite
	mockClient *MockCatalogClient
	service    *services.CatalogService
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.mockClient = new(MockCatalogClient)
	suite.service = services.NewCatalogService(
		suite.mockClient,
		testLogger(),
		services.WithCatalogBackoff(time.Millisecond),
	)
}

func validEntries() []ports.CatalogEntry {
	return []ports.CatalogEntry{
		{CurrencyCode: "USD", CountryCode: "US", Country: "United States", Symbol: "$", ValueWrtUSD: 1, IsActive: true},
		{CurrencyCode: "INR", CountryCode: "IN", Country: "India", Symbol: "₹", ValueWrtUSD: 83.10, IsActive: true},
		{CurrencyCode: "VEF", CountryCode: "VE", Country: "Venezuela", Symbol: "Bs", ValueWrtUSD: 24.2, IsActive: false},
	}
}

func (suite *CatalogServiceTestSuite) TestFetchCatalog_Success_FiltersInactive() {
	ctx := context.Background()
	suite.mockClient.On("FetchCurrencies", ctx).Return(validEntries(), nil).Once()

	catalog, err := suite.service.FetchCatalog(ctx)

	suite.Require().NoError(err)
	suite.Equal(2, catalog.Len())
	suite.True(catalog.Has("USD"))
	suite.True(catalog.Has("INR"))
	suite.False(catalog.Has("VEF"), "inactive entries must be filtered out")
	suite.True(catalog.Remote())
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *CatalogServiceTestSuite) TestFetchCatalog_AtomicReplacement() {
	ctx := context.Background()
	suite.mockClient.On("FetchCurrencies", ctx).Return(validEntries(), nil).Once()

	before := suite.service.Catalog()
	suite.False(before.Remote(), "catalog starts on the bootstrap table")

	_, err := suite.service.FetchCatalog(ctx)
	suite.Require().NoError(err)

	after := suite.service.Catalog()
	suite.True(after.Remote())
	// The old reference is untouched: replacement is wholesale, not in place.
	suite.False(before.Remote())
}

func (suite *CatalogServiceTestSuite) TestFetchCatalog_TransientErrorsRetried() {
	ctx := context.Background()
	transient := errors.New("connection refused")
	suite.mockClient.On("FetchCurrencies", ctx).Return(nil, transient).Twice()
	suite.mockClient.On("FetchCurrencies", ctx).Return(validEntries(), nil).Once()

	catalog, err := suite.service.FetchCatalog(ctx)

	suite.Require().NoError(err)
	suite.True(catalog.Has("USD"))
	suite.mockClient.AssertNumberOfCalls(suite.T(), "FetchCurrencies", 3)
}

func (suite *CatalogServiceTestSuite) TestFetchCatalog_ExhaustedWithoutCache() {
	ctx := context.Background()
	transient := errors.New("connection refused")
	suite.mockClient.On("FetchCurrencies", ctx).Return(nil, transient).Times(3)

	catalog, err := suite.service.FetchCatalog(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrCatalogUnavailable)
	suite.Nil(catalog)
	// The bootstrap table still serves reads.
	suite.NotEmpty(suite.service.ListCurrencies())
	suite.mockClient.AssertNumberOfCalls(suite.T(), "FetchCurrencies", 3)
}

func (suite *CatalogServiceTestSuite) TestFetchCatalog_ExhaustedFallsBackToLastGood() {
	ctx := context.Background()
	suite.mockClient.On("FetchCurrencies", ctx).Return(validEntries(), nil).Once()
	_, err := suite.service.FetchCatalog(ctx)
	suite.Require().NoError(err)

	transient := errors.New("timeout")
	suite.mockClient.On("FetchCurrencies", ctx).Return(nil, transient).Times(3)

	catalog, err := suite.service.FetchCatalog(ctx)

	suite.Require().NoError(err, "a previously fetched catalog absorbs the failure")
	suite.True(catalog.Remote())
	suite.True(catalog.Has("INR"))
}

func (suite *CatalogServiceTestSuite) TestFetchCatalog_ValidationFailureNotRetried() {
	ctx := context.Background()
	invalid := []ports.CatalogEntry{
		{CurrencyCode: "", Symbol: "$", ValueWrtUSD: 1, IsActive: true},
	}
	suite.mockClient.On("FetchCurrencies", ctx).Return(invalid, nil).Once()

	_, err := suite.service.FetchCatalog(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrCatalogUnavailable)
	suite.mockClient.AssertNumberOfCalls(suite.T(), "FetchCurrencies", 1)
}

func (suite *CatalogServiceTestSuite) TestFetchCatalog_ClientValidationErrorNotRetried() {
	ctx := context.Background()
	malformed := apperrors.ErrValidation
	suite.mockClient.On("FetchCurrencies", ctx).Return(nil, malformed).Once()

	_, err := suite.service.FetchCatalog(ctx)

	suite.Require().Error(err)
	suite.mockClient.AssertNumberOfCalls(suite.T(), "FetchCurrencies", 1)
}

func (suite *CatalogServiceTestSuite) TestGetCurrency_Unknown() {
	_, err := suite.service.GetCurrency("XYZ")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnknownCurrency)
}

func (suite *CatalogServiceTestSuite) TestGetCurrency_CaseInsensitive() {
	currency, err := suite.service.GetCurrency("usd")
	suite.Require().NoError(err)
	suite.Equal("USD", currency.Code)
	suite.Equal("$", currency.Symbol)
}

func (suite *CatalogServiceTestSuite) TestBootstrapRatesArePositive() {
	for _, currency := range domain.BootstrapCatalog().List() {
		suite.True(currency.RateToBase.IsPositive(), "rateToBase must be > 0 for %s", currency.Code)
	}
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
