package xmlrpc

import (
	"crypto/tls"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
)

// DefaultTimeout bounds one exchange when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

// DefaultMaxResponseSize caps the response body read into memory.
const DefaultMaxResponseSize = 16 << 20

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Timeout and TLS options are
// applied on top of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-exchange timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTLSConfig sets the TLS configuration for https endpoints.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		c.tlsConfig = cfg
	}
}

// WithRateLimit throttles outgoing calls to rps per second with the given
// burst. A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxResponseSize caps the bytes read from a response body.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithLogger sets the logger for wire-level debug output.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}
