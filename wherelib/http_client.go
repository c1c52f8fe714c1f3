package wherelib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

type httpClient struct {
	userAgent      string
	client         *http.Client
	rateLimiter    *rate.Limiter
	circuitBreaker *circuitBreaker
}

func (h httpClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", h.userAgent)

	return h.circuitBreaker.Do(req.Context(), func(ctx context.Context) (*http.Response, error) {
		if err := h.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCircuitBreakerIgnore, err)
		}

		resp, err := h.client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusBadRequest {
			flushResponse(resp.Body)

			return nil, fmt.Errorf("netloc has responded with %s", resp.Status)
		}

		return resp, nil
	})
}

func flushResponse(body io.ReadCloser) {
	io.Copy(io.Discard, body) // nolint: errcheck
	body.Close()
}

// NewHTTPClient prepares a new HTTP client for online providers. It
// wraps a given client with rate limiter and circuit breaker and sets a
// user agent.
//
// Rate limiter protects a quota of the upstream service: free tiers of
// IP geolocation services are quite strict. Zero rateLimitInterval
// disables it. Please see https://pkg.go.dev/golang.org/x/time/rate to
// get a meaning of rate limiter parameters.
//
// A meaning of circuit breaker parameters:
//
// circuitBreakerOpenThreshold - a number of consecutive failures after
// which circuit breaker becomes OPEN and stops sending requests to a
// target. While it is open, lookups fail immediately.
//
// circuitBreakerResetFailuresTimeout - a period after which a failure
// counter of the CLOSED circuit breaker is reset.
//
// circuitBreakerHalfOpenTimeout - OPEN circuit breaker goes into
// HALF_OPEN state after this period. Within this state we allow 1
// attempt. If this attempt fails, then it goes into OPEN state again.
// If succeed - goes to CLOSED.
func NewHTTPClient(client *http.Client,
	userAgent string,
	rateLimiterInterval time.Duration,
	rateLimitBurst int,
	circuitBreakerOpenThreshold uint32,
	circuitBreakerHalfOpenTimeout, circuitBreakerResetFailuresTimeout time.Duration) HTTPClient {
	limit := rate.Inf
	if rateLimiterInterval > 0 {
		limit = rate.Every(rateLimiterInterval)
	}

	return httpClient{
		userAgent:   userAgent,
		client:      client,
		rateLimiter: rate.NewLimiter(limit, rateLimitBurst),
		circuitBreaker: newCircuitBreaker(circuitBreakerOpenThreshold,
			circuitBreakerHalfOpenTimeout,
			circuitBreakerResetFailuresTimeout),
	}
}
