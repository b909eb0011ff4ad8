package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/learnsphere/currency_backend/internal/core/domain"
	"github.com/learnsphere/currency_backend/internal/core/ports"
	"github.com/learnsphere/currency_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"
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
type PricingServiceTestSuite struct {
	suite.Suite
	catalog   *services.CatalogService
	mockRates *MockRateCacheFacade
	service   *services.PricingService
}

func (suite *PricingServiceTestSuite) SetupTest() {
	suite.catalog = services.NewCatalogService(new(MockCatalogClient), testLogger())
	suite.mockRates = new(MockRateCacheFacade)
	suite.service = services.NewPricingService(suite.catalog, suite.mockRates, testLogger(), language.English)
}

// snapshot with round-number rates so expected values stay exact.
func (suite *PricingServiceTestSuite) snapshotReturns(rates map[string]decimal.Decimal) {
	snapshot := domain.NewSnapshot("USD", rates, time.Now(), domain.SnapshotSourceRemote)
	suite.mockRates.On("GetRates", mock.Anything).Return(snapshot)
}

func (suite *PricingServiceTestSuite) TestConvert_Zero() {
	suite.snapshotReturns(map[string]decimal.Decimal{"INR": decimal.NewFromInt(83)})

	result := suite.service.Convert(context.Background(), decimal.Zero, "INR")

	suite.True(result.IsZero())
}

func (suite *PricingServiceTestSuite) TestConvert_BaseCurrencyIsIdentity() {
	result := suite.service.Convert(context.Background(), decimal.NewFromFloat(19.99), "USD")

	suite.True(result.Equal(decimal.NewFromFloat(19.99)))
	suite.mockRates.AssertNotCalled(suite.T(), "GetRates", mock.Anything)
}

func (suite *PricingServiceTestSuite) TestConvert_UsesSnapshotRate() {
	suite.snapshotReturns(map[string]decimal.Decimal{"INR": decimal.NewFromFloat(83.25)})

	result := suite.service.Convert(context.Background(), decimal.NewFromInt(10), "INR")

	suite.True(result.Equal(decimal.NewFromFloat(832.5)), "got %s", result)
}

func (suite *PricingServiceTestSuite) TestConvert_RoundsToTwoDecimals() {
	suite.snapshotReturns(map[string]decimal.Decimal{"EUR": decimal.NewFromFloat(0.91)})

	result := suite.service.Convert(context.Background(), decimal.NewFromFloat(19.99), "EUR")

	// 19.99 * 0.91 = 18.1909
	suite.True(result.Equal(decimal.NewFromFloat(18.19)), "got %s", result)
}

func (suite *PricingServiceTestSuite) TestConvert_SnapshotWinsOverCatalog() {
	// Bootstrap catalog carries EUR at 0.92; the live snapshot must win.
	suite.snapshotReturns(map[string]decimal.Decimal{"EUR": decimal.NewFromFloat(0.5)})

	result := suite.service.Convert(context.Background(), decimal.NewFromInt(100), "EUR")

	suite.True(result.Equal(decimal.NewFromInt(50)), "got %s", result)
}

func (suite *PricingServiceTestSuite) TestConvert_CatalogFallbackWhenSnapshotMissesCode() {
	suite.snapshotReturns(map[string]decimal.Decimal{"EUR": decimal.NewFromFloat(0.91)})

	result := suite.service.Convert(context.Background(), decimal.NewFromInt(10), "INR")

	// Bootstrap catalog rate for INR is 83.10.
	suite.True(result.Equal(decimal.NewFromInt(831)), "got %s", result)
}

func (suite *PricingServiceTestSuite) TestConvert_UnknownCodeConvertsAtOne() {
	suite.snapshotReturns(map[string]decimal.Decimal{})

	result := suite.service.Convert(context.Background(), decimal.NewFromFloat(42.42), "XYZ")

	suite.True(result.Equal(decimal.NewFromFloat(42.42)))
}

func (suite *PricingServiceTestSuite) TestConvertFrom_RoundTrip() {
	suite.snapshotReturns(map[string]decimal.Decimal{"INR": decimal.NewFromFloat(83.25)})

	converted := suite.service.Convert(context.Background(), decimal.NewFromInt(10), "INR")
	back := suite.service.ConvertFrom(context.Background(), converted, "INR")

	suite.True(back.Equal(decimal.NewFromInt(10)), "got %s", back)
}

func (suite *PricingServiceTestSuite) TestFormat_ZeroIsFree() {
	result := suite.service.Format(context.Background(), decimal.Zero, ports.FormatOptions{Code: "INR"})

	suite.Equal("Free", result)
}

func (suite *PricingServiceTestSuite) TestFormat_GroupedWithSymbol() {
	result := suite.service.Format(context.Background(), decimal.NewFromFloat(1234.5), ports.FormatOptions{Code: "USD"})

	suite.Equal("$1,235", result)
}

func (suite *PricingServiceTestSuite) TestFormat_ConvertsBeforeRendering() {
	suite.snapshotReturns(map[string]decimal.Decimal{"INR": decimal.NewFromInt(100)})

	result := suite.service.Format(context.Background(), decimal.NewFromFloat(12.345), ports.FormatOptions{Code: "INR"})

	// 12.345 * 100 = 1234.5, rounded for display to 1235.
	suite.Equal("₹1,235", result)
}

func (suite *PricingServiceTestSuite) TestFormat_ExplicitDecimals() {
	decimals := 2
	result := suite.service.Format(context.Background(), decimal.NewFromFloat(19.99), ports.FormatOptions{Code: "USD", Decimals: &decimals})

	suite.Equal("$19.99", result)
}

func (suite *PricingServiceTestSuite) TestFormat_ShowCodeSuffix() {
	result := suite.service.Format(context.Background(), decimal.NewFromFloat(1234.5), ports.FormatOptions{Code: "USD", ShowCode: true})

	suite.Equal("$1,235 USD", result)
}

func (suite *PricingServiceTestSuite) TestFormat_UnknownCodeUsesCodePrefix() {
	suite.snapshotReturns(map[string]decimal.Decimal{})

	result := suite.service.Format(context.Background(), decimal.NewFromInt(5), ports.FormatOptions{Code: "XYZ"})

	suite.Equal("XYZ 5", result)
}

func (suite *PricingServiceTestSuite) TestFormat_EmptyCodeDefaultsToBase() {
	result := suite.service.Format(context.Background(), decimal.NewFromInt(7), ports.FormatOptions{})

	suite.Equal("$7", result)
}

func TestPricingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PricingServiceTestSuite))
}
