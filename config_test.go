package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/9seconds/whereabouts/providers"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func (suite *ConfigTestSuite) TestDefaults() {
	conf, err := parseConfig("")

	suite.NoError(err)
	suite.Equal(DefaultListen, conf.GetListen())
	suite.Equal(DefaultStaticDirectory, conf.GetStaticDirectory())
	suite.Equal("", conf.GetDatabaseURL())
	suite.Equal(time.Duration(0), conf.GetLookupTimeout())
	suite.Require().Len(conf.GetProviders(), 1)

	prov := conf.GetProviders()[0]

	suite.Equal(providers.NameIPAPI, prov.GetName())
	suite.Equal(DefaultHTTPTimeout, prov.GetHTTPTimeout())
	suite.Equal(DefaultRateLimitInterval, prov.GetRateLimitInterval())
	suite.Equal(DefaultRateLimitBurst, prov.GetRateLimitBurst())
	suite.EqualValues(DefaultCircuitBreakerOpenThreshold, prov.GetCircuitBreakerOpenThreshold())
	suite.Equal(DefaultCircuitBreakerHalfOpenTimeout, prov.GetCircuitBreakerHalfOpenTimeout())
	suite.Equal(DefaultCircuitBreakerResetFailuresTimeout, prov.GetCircuitBreakerResetFailuresTimeout())
	suite.EqualValues(0, prov.GetCacheSize())
	suite.Equal(DefaultCacheTTL, prov.GetCacheTTL())
	suite.Empty(prov.GetSpecificParameters())
}

func (suite *ConfigTestSuite) TestParseFile() {
	path := filepath.Join(suite.T().TempDir(), "config.hjson")
	content := `{
    # comments are allowed
    listen: 127.0.0.1:8080
    static_directory: /srv/static
    csv_path: /var/lib/whereabouts/locations.csv
    lookup_timeout: 3s
    worker_pool_size: 16
    providers: [
        {
            name: ipinfo
            http_timeout: 2s
            rate_limit_interval: 1s
            rate_limit_burst: 2
            circuit_breaker_open_threshold: 3
            cache_size: 100
            cache_ttl: 10m
            specific_parameters: {
                auth_token: secret
            }
        }
        {
            name: ip2c
        }
    ]
}`

	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o600))

	conf, err := parseConfig(path)

	suite.Require().NoError(err)
	suite.Equal("127.0.0.1:8080", conf.GetListen())
	suite.Equal("/srv/static", conf.GetStaticDirectory())
	suite.Equal("/var/lib/whereabouts/locations.csv", conf.GetDatabaseURL())
	suite.Equal(3*time.Second, conf.GetLookupTimeout())
	suite.Equal(16, conf.GetWorkerPoolSize())
	suite.Require().Len(conf.GetProviders(), 2)

	prov := conf.GetProviders()[0]

	suite.Equal(providers.NameIPInfo, prov.GetName())
	suite.Equal(2*time.Second, prov.GetHTTPTimeout())
	suite.Equal(time.Second, prov.GetRateLimitInterval())
	suite.Equal(2, prov.GetRateLimitBurst())
	suite.EqualValues(3, prov.GetCircuitBreakerOpenThreshold())
	suite.EqualValues(100, prov.GetCacheSize())
	suite.Equal(10*time.Minute, prov.GetCacheTTL())
	suite.Equal("secret", prov.GetSpecificParameters()["auth_token"])
}

func (suite *ConfigTestSuite) TestAbsentFile() {
	_, err := parseConfig(filepath.Join(suite.T().TempDir(), "absent.hjson"))

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestIncorrectListen() {
	_, err := parseConfigContent([]byte(`{listen: "localhost"}`))

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestIncorrectDuration() {
	_, err := parseConfigContent([]byte(`{lookup_timeout: 10}`))

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestDuplicatedProviders() {
	_, err := parseConfigContent([]byte(`{providers: [{name: ipapi}, {name: ipapi}]}`))

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestOverride() {
	conf, err := parseConfigContent([]byte(`{
        listen: ":8000"
        csv_path: records.csv
    }`))

	suite.Require().NoError(err)
	suite.NoError(conf.override("", "", ""))
	suite.Equal(":8000", conf.GetListen())
	suite.Equal("records.csv", conf.GetDatabaseURL())

	suite.NoError(conf.override(":9000", "postgres://localhost/db", "/www"))
	suite.Equal(":9000", conf.GetListen())
	suite.Equal("postgres://localhost/db", conf.GetDatabaseURL())
	suite.Equal("/www", conf.GetStaticDirectory())

	suite.Error(conf.override("nonsense", "", ""))
}

func TestConfig(t *testing.T) {
	suite.Run(t, &ConfigTestSuite{})
}
