package middleware

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitTransport holds requests back until the limiter grants a token.
// A request whose context ends while waiting fails without being sent.
type RateLimitTransport struct {
	Limiter *rate.Limiter
	Base    http.RoundTripper
}

func NewRateLimitTransport(rps float64, burst int, next http.RoundTripper) *RateLimitTransport {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitTransport{Limiter: rate.NewLimiter(rate.Limit(rps), burst), Base: next}
}

func (t *RateLimitTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(r.Context()); err != nil {
			if r.Body != nil {
				r.Body.Close()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	return base(t.Base).RoundTrip(r)
}
