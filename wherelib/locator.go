package wherelib

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	DefaultWorkerPoolSize = 1024
	DefaultLookupTimeout  = 6 * time.Second

	workerPoolExpireTime = time.Minute
)

// Locator is an Enricher which asks all its providers concurrently and
// merges their answers. A lookup never takes longer than a timeout
// given to NewLocator.
type Locator struct {
	logger     Logger
	providers  []Provider
	stats      []*UsageStats
	timeout    time.Duration
	rwmutex    sync.RWMutex
	closeOnce  sync.Once
	workerPool *ants.PoolWithFunc
	closed     bool
}

func (l *Locator) Enrich(ctx context.Context, ip string) Enrichment {
	rv, err := l.Resolve(ctx, ip)
	if err != nil {
		l.logger.LookupError(net.ParseIP(strings.TrimSpace(ip)), "", err)
	}

	return rv
}

// Resolve is the same as Enrich but it also explains why nothing was
// resolved. Errors of individual providers are not returned, they go to
// logs.
func (l *Locator) Resolve(ctx context.Context, ip string) (Enrichment, error) {
	l.rwmutex.RLock()
	defer l.rwmutex.RUnlock()

	if l.closed {
		return Enrichment{}, ErrLocatorShutdown
	}

	ipAddr := net.ParseIP(strings.TrimSpace(ip))
	if ipAddr == nil {
		return Enrichment{}, fmt.Errorf("%w: %q", ErrIncorrectIP, ip)
	}

	if len(l.providers) == 0 {
		return Enrichment{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	resultChannel := make(chan Enrichment, 1)
	task := &locatorTask{
		ctx:           ctx,
		ip:            ipAddr,
		resultChannel: resultChannel,
	}

	if err := l.workerPool.Invoke(task); err != nil {
		return Enrichment{}, fmt.Errorf("cannot schedule a task: %w", err)
	}

	select {
	case <-ctx.Done():
		return Enrichment{}, fmt.Errorf("%w: %v", ErrContextIsClosed, ctx.Err())
	case rv := <-resultChannel:
		return rv, nil
	}
}

func (l *Locator) UsageStats() []*UsageStats {
	return l.stats
}

func (l *Locator) Shutdown() {
	l.rwmutex.Lock()
	defer l.rwmutex.Unlock()

	l.closed = true

	l.closeOnce.Do(func() {
		l.workerPool.Release()
	})
}

// NewLocator creates a new Locator. Non-positive workerPoolSize and
// timeout fall back to DefaultWorkerPoolSize and DefaultLookupTimeout.
func NewLocator(providers []Provider, logger Logger, workerPoolSize int, timeout time.Duration) (*Locator, error) {
	rv := &Locator{
		logger:    logger,
		providers: make([]Provider, 0, len(providers)),
		stats:     make([]*UsageStats, 0, len(providers)),
		timeout:   timeout,
	}

	seenNames := map[string]bool{}

	for _, v := range providers {
		if seenNames[v.Name()] {
			return nil, fmt.Errorf("provider %s is duplicated", v.Name())
		}

		seenNames[v.Name()] = true
		rv.providers = append(rv.providers, v)
		rv.stats = append(rv.stats, &UsageStats{
			Name: v.Name(),
			Kind: "provider",
		})
	}

	if rv.timeout <= 0 {
		rv.timeout = DefaultLookupTimeout
	}

	poolSize := workerPoolSize
	if poolSize <= 0 {
		poolSize = DefaultWorkerPoolSize
	}

	pool, err := ants.NewPoolWithFunc(poolSize, rv.runTask,
		ants.WithExpiryDuration(workerPoolExpireTime))
	if err != nil {
		return nil, fmt.Errorf("cannot create a worker pool: %w", err)
	}

	rv.workerPool = pool

	return rv, nil
}
