package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/9seconds/whereabouts/providers"
	"github.com/9seconds/whereabouts/wherelib"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

// makeProviders creates providers from config. Some providers hold
// resources, they are returned as closers as well.
func makeProviders(conf *config) ([]wherelib.Provider, []io.Closer, error) {
	rv := make([]wherelib.Provider, 0, len(conf.GetProviders()))
	closers := []io.Closer{}

	for _, v := range conf.GetProviders() {
		httpClient := makeNewHTTPClient(v)
		params := v.GetSpecificParameters()

		var prov wherelib.Provider

		switch v.GetName() {
		case providers.NameIPAPI:
			prov = providers.NewIPAPI(httpClient, params)
		case providers.NameIP2C:
			prov = providers.NewIP2C(httpClient)
		case providers.NameIPInfo:
			prov = providers.NewIPInfo(httpClient, params["auth_token"])
		case providers.NameIPStack:
			ipstack, err := providers.NewIPStack(httpClient,
				params["auth_token"], boolParam(params["secure"]))
			if err != nil {
				return nil, closers, fmt.Errorf("cannot create ipstack provider: %w", err)
			}

			prov = ipstack
		case providers.NameKeyCDN:
			prov = providers.NewKeyCDN(httpClient)
		case providers.NameMaxmind:
			maxmind, err := providers.NewMaxmind(params["path"])
			if err != nil {
				return nil, closers, fmt.Errorf("cannot create maxmind provider: %w", err)
			}

			closers = append(closers, maxmind)
			prov = maxmind
		default:
			return nil, closers, fmt.Errorf("unsupported provider name: %s", v.GetName())
		}

		if size := v.GetCacheSize(); size > 0 {
			cached, err := wherelib.NewCachingProvider(prov, size, v.GetCacheTTL())
			if err != nil {
				return nil, closers, fmt.Errorf("cannot create cache for %s: %w", v.GetName(), err)
			}

			prov = cached
		}

		rv = append(rv, prov)
	}

	return rv, closers, nil
}

func makeNewHTTPClient(conf configProvider) wherelib.HTTPClient {
	httpClient := &http.Client{
		Timeout: conf.GetHTTPTimeout(),
	}

	return wherelib.NewHTTPClient(httpClient,
		"whereabouts/"+version,
		conf.GetRateLimitInterval(),
		conf.GetRateLimitBurst(),
		conf.GetCircuitBreakerOpenThreshold(),
		conf.GetCircuitBreakerHalfOpenTimeout(),
		conf.GetCircuitBreakerResetFailuresTimeout())
}

func boolParam(param string) bool {
	switch strings.ToLower(param) {
	case "1", "true", "enabled", "yes":
		return true
	default:
		return false
	}
}
