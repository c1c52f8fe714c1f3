package providers_test

import (
	"net/http"
	"time"

	"github.com/9seconds/whereabouts/wherelib"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
)

const testIP = "23.22.13.113"

type ProviderTestSuite struct {
	suite.Suite

	http wherelib.HTTPClient
}

func (suite *ProviderTestSuite) SetupTest() {
	suite.http = wherelib.NewHTTPClient(&http.Client{},
		"test-agent",
		time.Millisecond,
		100,
		100,
		time.Second,
		time.Second)
}

type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}
