package wherelib

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/dgraph-io/ristretto"
)

type cachingProvider struct {
	Provider

	cache *ristretto.Cache
	ttl   time.Duration
}

// Lookup caches only successful results: a failure of the upstream
// service should not stick for a whole TTL.
func (c cachingProvider) Lookup(ctx context.Context, ip net.IP) (ProviderLookupResult, error) {
	cacheKey := ip.String()

	if value, ok := c.cache.Get(cacheKey); ok {
		return value.(ProviderLookupResult), nil
	}

	result, err := c.Provider.Lookup(ctx, ip)
	if err != nil {
		return ProviderLookupResult{}, err
	}

	c.cache.SetWithTTL(cacheKey, result, 1, c.ttl)

	return result, nil
}

// NewCachingProvider wraps a provider with in-memory cache of
// itemsCount entries. Each entry expires after ttl.
func NewCachingProvider(provider Provider, itemsCount uint, ttl time.Duration) (Provider, error) {
	cacheConfig := &ristretto.Config{
		MaxCost:     int64(itemsCount),
		NumCounters: 10 * int64(itemsCount),
		BufferItems: 64,
	}

	cache, err := ristretto.NewCache(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot create a cache for %s: %w", provider.Name(), err)
	}

	return cachingProvider{
		Provider: provider,
		cache:    cache,
		ttl:      ttl,
	}, nil
}
