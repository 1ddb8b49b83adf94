package session

import (
	"time"

	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
)

// Option configures a Session at construction.
type Option func(*options)

type options struct {
	apiKey   string
	domain   string
	persist  *bool
	headers  map[string]string
	token    string
	identity Identity
	log      logger.Logger
	now      func() time.Time
	nonce    func() (string, error)
}

// WithAPIKey sets the shared secret used for key authentication.
// A non-empty key enables persist unless WithPersist says otherwise.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithDomain sets the caller domain instead of resolving it.
func WithDomain(domain string) Option {
	return func(o *options) {
		o.domain = domain
	}
}

// WithPersist overrides the persist default.
func WithPersist(persist bool) Option {
	return func(o *options) {
		o.persist = &persist
	}
}

// WithHeaders sets the initial extra headers.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.headers = headers
	}
}

// WithIdentity sets the provider used to derive the default domain.
func WithIdentity(id Identity) Option {
	return func(o *options) {
		o.identity = id
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithClock sets the time source for auth timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithNonce sets the nonce source for auth tuples.
func WithNonce(nonce func() (string, error)) Option {
	return func(o *options) {
		o.nonce = nonce
	}
}

// WithSessionToken resumes a session token captured earlier, so the first
// call is already authenticated. It has no effect unless persist is on.
func WithSessionToken(tok string) Option {
	return func(o *options) {
		o.token = tok
	}
}
