package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/9seconds/whereabouts/providers"
	"github.com/hjson/hjson-go/v4"
)

const (
	DefaultListen          = ":5000"
	DefaultStaticDirectory = "static"

	DefaultHTTPTimeout                        = 10 * time.Second
	DefaultRateLimitInterval                  = 100 * time.Millisecond
	DefaultRateLimitBurst                     = 10
	DefaultCircuitBreakerOpenThreshold        = 5
	DefaultCircuitBreakerHalfOpenTimeout      = time.Minute
	DefaultCircuitBreakerResetFailuresTimeout = 20 * time.Second
	DefaultCacheTTL                           = time.Hour
)

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	d.Duration = dur

	return nil
}

type config struct {
	Listen          string           `json:"listen"`
	StaticDirectory string           `json:"static_directory"`
	DatabaseURL     string           `json:"database_url"`
	CSVPath         string           `json:"csv_path"`
	RedisKey        string           `json:"redis_key"`
	MongoCollection string           `json:"mongo_collection"`
	LookupTimeout   duration         `json:"lookup_timeout"`
	WorkerPoolSize  uint             `json:"worker_pool_size"`
	Providers       []configProvider `json:"providers"`
}

func (c config) GetListen() string {
	if c.Listen == "" {
		return DefaultListen
	}

	return c.Listen
}

func (c config) GetStaticDirectory() string {
	if c.StaticDirectory == "" {
		return DefaultStaticDirectory
	}

	return c.StaticDirectory
}

// GetDatabaseURL returns a connection string of the storage. If
// database URL is not set, records go to CSV file.
func (c config) GetDatabaseURL() string {
	if c.DatabaseURL == "" {
		return c.CSVPath
	}

	return c.DatabaseURL
}

func (c config) GetLookupTimeout() time.Duration {
	return c.LookupTimeout.Duration
}

func (c config) GetWorkerPoolSize() int {
	return int(c.WorkerPoolSize)
}

// GetProviders returns configured providers. If nothing is configured,
// only ipapi is used.
func (c config) GetProviders() []configProvider {
	if len(c.Providers) == 0 {
		return []configProvider{{Name: providers.NameIPAPI}}
	}

	return c.Providers
}

type configProvider struct {
	Name                               string            `json:"name"`
	HTTPTimeout                        duration          `json:"http_timeout"`
	RateLimitInterval                  duration          `json:"rate_limit_interval"`
	RateLimitBurst                     uint              `json:"rate_limit_burst"`
	CircuitBreakerOpenThreshold        uint32            `json:"circuit_breaker_open_threshold"`
	CircuitBreakerHalfOpenTimeout      duration          `json:"circuit_breaker_half_open_timeout"`
	CircuitBreakerResetFailuresTimeout duration          `json:"circuit_breaker_reset_failures_timeout"`
	CacheSize                          uint              `json:"cache_size"`
	CacheTTL                           duration          `json:"cache_ttl"`
	SpecificParameters                 map[string]string `json:"specific_parameters"`
}

func (c configProvider) GetName() string {
	return c.Name
}

func (c configProvider) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return DefaultHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

func (c configProvider) GetRateLimitInterval() time.Duration {
	if c.RateLimitInterval.Duration == 0 {
		return DefaultRateLimitInterval
	}

	return c.RateLimitInterval.Duration
}

func (c configProvider) GetRateLimitBurst() int {
	if c.RateLimitBurst == 0 {
		return DefaultRateLimitBurst
	}

	return int(c.RateLimitBurst)
}

func (c configProvider) GetCircuitBreakerOpenThreshold() uint32 {
	if c.CircuitBreakerOpenThreshold == 0 {
		return DefaultCircuitBreakerOpenThreshold
	}

	return c.CircuitBreakerOpenThreshold
}

func (c configProvider) GetCircuitBreakerHalfOpenTimeout() time.Duration {
	if c.CircuitBreakerHalfOpenTimeout.Duration == 0 {
		return DefaultCircuitBreakerHalfOpenTimeout
	}

	return c.CircuitBreakerHalfOpenTimeout.Duration
}

func (c configProvider) GetCircuitBreakerResetFailuresTimeout() time.Duration {
	if c.CircuitBreakerResetFailuresTimeout.Duration == 0 {
		return DefaultCircuitBreakerResetFailuresTimeout
	}

	return c.CircuitBreakerResetFailuresTimeout.Duration
}

// GetCacheSize returns a number of cached lookups. 0 means that cache
// is disabled.
func (c configProvider) GetCacheSize() uint {
	return c.CacheSize
}

func (c configProvider) GetCacheTTL() time.Duration {
	if c.CacheTTL.Duration == 0 {
		return DefaultCacheTTL
	}

	return c.CacheTTL.Duration
}

func (c configProvider) GetSpecificParameters() map[string]string {
	if c.SpecificParameters == nil {
		return map[string]string{}
	}

	return c.SpecificParameters
}

// parseConfig reads HJSON config. Empty path means that there is no
// config file and all defaults are used.
func parseConfig(path string) (*config, error) {
	if path == "" {
		return &config{}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	return parseConfigContent(content)
}

func parseConfigContent(content []byte) (*config, error) {
	conf := config{}
	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return nil, fmt.Errorf("cannot parse hjson: %w", err)
	}

	rawBytes, _ := json.Marshal(rawMap)

	if err := json.Unmarshal(rawBytes, &conf); err != nil {
		return nil, fmt.Errorf("incorrect config: %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *config) validate() error {
	if _, _, err := net.SplitHostPort(c.GetListen()); err != nil {
		return fmt.Errorf("incorrect host:port for listen: %w", err)
	}

	seenProviderNames := map[string]struct{}{}

	for _, v := range c.Providers {
		if v.GetName() == "" {
			return fmt.Errorf("provider name is empty")
		}

		if _, ok := seenProviderNames[v.GetName()]; ok {
			return fmt.Errorf("name %s is duplicated", v.GetName())
		}

		seenProviderNames[v.GetName()] = struct{}{}
	}

	return nil
}

// override applies values of command line flags and environment
// variables. Empty values are ignored.
func (c *config) override(listen, databaseURL, staticDirectory string) error {
	if listen != "" {
		c.Listen = listen
	}

	if databaseURL != "" {
		c.DatabaseURL = databaseURL
	}

	if staticDirectory != "" {
		c.StaticDirectory = staticDirectory
	}

	return c.validate()
}
