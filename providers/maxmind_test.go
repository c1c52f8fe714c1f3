package providers_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/9seconds/whereabouts/providers"
	"github.com/stretchr/testify/suite"
)

type MaxmindTestSuite struct {
	suite.Suite
}

func (suite *MaxmindTestSuite) TestNoPath() {
	_, err := providers.NewMaxmind("")

	suite.ErrorIs(err, providers.ErrDatabaseIsRequired)
}

func (suite *MaxmindTestSuite) TestAbsentFile() {
	_, err := providers.NewMaxmind(filepath.Join(suite.T().TempDir(), "absent.mmdb"))

	suite.Error(err)
}

func (suite *MaxmindTestSuite) TestCorruptedFile() {
	path := filepath.Join(suite.T().TempDir(), "broken.mmdb")

	suite.Require().NoError(os.WriteFile(path, []byte("not a database"), 0o600))

	_, err := providers.NewMaxmind(path)

	suite.Error(err)
}

type IntegrationMaxmindTestSuite struct {
	suite.Suite

	prov *providers.MaxmindProvider
}

func (suite *IntegrationMaxmindTestSuite) SetupTest() {
	prov, err := providers.NewMaxmind(os.Getenv("WHEREABOUTS_TEST_MAXMIND_DB"))

	suite.Require().NoError(err)

	suite.prov = prov
}

func (suite *IntegrationMaxmindTestSuite) TearDownTest() {
	suite.prov.Close()
}

func (suite *IntegrationMaxmindTestSuite) TestName() {
	suite.Equal(providers.NameMaxmind, suite.prov.Name())
}

func (suite *IntegrationMaxmindTestSuite) TestLookup() {
	result, err := suite.prov.Lookup(context.Background(), net.ParseIP("81.2.69.142"))

	suite.NoError(err)
	suite.Equal("GB", result.CountryCode.String())
}

func (suite *IntegrationMaxmindTestSuite) TestLookupClosed() {
	suite.NoError(suite.prov.Close())

	_, err := suite.prov.Lookup(context.Background(), net.ParseIP("81.2.69.142"))

	suite.ErrorIs(err, providers.ErrDatabaseIsClosed)
}

func TestMaxmind(t *testing.T) {
	suite.Run(t, &MaxmindTestSuite{})
}

func TestIntegrationMaxmind(t *testing.T) {
	if os.Getenv("WHEREABOUTS_TEST_MAXMIND_DB") == "" {
		t.Skip("WHEREABOUTS_TEST_MAXMIND_DB is not set")
		return
	}

	suite.Run(t, &IntegrationMaxmindTestSuite{})
}
