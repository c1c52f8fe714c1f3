package wherelib_test

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/9seconds/whereabouts/wherelib"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CachingProviderTestSuite struct {
	suite.Suite

	p              wherelib.Provider
	mockedProvider *ProviderMock
}

func (suite *CachingProviderTestSuite) SetupTest() {
	suite.mockedProvider = &ProviderMock{}

	prov, err := wherelib.NewCachingProvider(suite.mockedProvider, 100, time.Minute)

	suite.Require().NoError(err)

	suite.p = prov
}

func (suite *CachingProviderTestSuite) TearDownTest() {
	suite.mockedProvider.AssertExpectations(suite.T())
}

func (suite *CachingProviderTestSuite) TestLookup() {
	ctx := context.Background()
	ip := net.ParseIP("80.80.81.81")

	suite.mockedProvider.
		On("Lookup", mock.Anything, mock.Anything).
		Return(wherelib.ProviderLookupResult{
			City:        "Berlin",
			CountryCode: wherelib.Alpha2ToCountryCode("DE"),
		}, nil).
		Once()

	result1, err := suite.p.Lookup(ctx, ip)

	suite.NoError(err)

	// ristretto is eventually consistent
	time.Sleep(100 * time.Millisecond)

	result2, err := suite.p.Lookup(ctx, ip)

	suite.NoError(err)
	suite.Equal(result1.City, result2.City)
	suite.Equal(result1.CountryCode, result2.CountryCode)
}

func (suite *CachingProviderTestSuite) TestFailuresAreNotCached() {
	ctx := context.Background()
	ip := net.ParseIP("80.80.81.81")

	suite.mockedProvider.
		On("Lookup", mock.Anything, mock.Anything).
		Return(wherelib.ProviderLookupResult{}, io.EOF).
		Twice()

	_, err := suite.p.Lookup(ctx, ip)

	suite.Error(err)

	time.Sleep(100 * time.Millisecond)

	_, err = suite.p.Lookup(ctx, ip)

	suite.Error(err)
}

func (suite *CachingProviderTestSuite) TestName() {
	suite.mockedProvider.On("Name").Return("mocked").Once()

	suite.Equal("mocked", suite.p.Name())
}

func TestCachingProvider(t *testing.T) {
	suite.Run(t, &CachingProviderTestSuite{})
}
