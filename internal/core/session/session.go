package session

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yndnr/xrpc-go/internal/core/domain"
	"github.com/yndnr/xrpc-go/internal/infra/hostid"
	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
	"github.com/yndnr/xrpc-go/pkg/token"
)

// Session is a chainable RPC session against one endpoint.
type Session struct {
	host     string
	domain   string
	apiKey   string
	persist  bool
	token    string
	headers  map[string]string
	response domain.Response

	transport Transport
	identity  Identity
	log       logger.Logger
	now       func() time.Time
	nonce     func() (string, error)
}

// New creates a session for host that dispatches through transport.
//
// Persist defaults to true iff an API key is supplied. The domain defaults
// to the identity provider's name (hostid.New when none is given).
func New(host string, transport Transport, opts ...Option) *Session {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		host:      host,
		apiKey:    o.apiKey,
		persist:   o.apiKey != "",
		token:     o.token,
		headers:   make(map[string]string),
		transport: transport,
		identity:  o.identity,
		log:       o.log,
		now:       o.now,
		nonce:     o.nonce,
	}
	if o.persist != nil {
		s.persist = *o.persist
	}
	if s.identity == nil {
		s.identity = hostid.New()
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.nonce == nil {
		s.nonce = token.NewNonce
	}
	s.log = s.log.With("host", host)

	s.SetDomain(o.domain)
	s.SetHeaders(o.headers)
	return s
}

// Invoke calls method with params and records the outcome.
//
// It never reports failure directly: inspect Response. While persist is on
// and the previous call failed, Invoke returns immediately without
// contacting the transport.
func (s *Session) Invoke(ctx context.Context, method string, params ...domain.Value) *Session {
	if s.persist && s.response.IsFailure() {
		s.log.Debug("call skipped after earlier failure", "method", method)
		return s
	}

	ctx = logger.WithRequestID(ctx, uuid.NewString())
	log := logger.L(ctx, s.log).With("method", method)

	if method == "" {
		log.Error("invoke called without a method name")
		s.response = domain.Failed(domain.ErrMissingMethod)
		return s
	}

	args, err := s.assemble(method, params)
	if err != nil {
		log.Error("building auth params failed", "error", err)
		s.response = domain.Failed(err)
		return s
	}

	log.Debug("sending call", "params", len(args), "authenticated", len(args) > len(params))
	value, err := s.transport.Send(ctx, method, args, s.Headers())
	if err != nil {
		s.response = domain.Failed(s.classify(log, err))
		return s
	}

	s.response = domain.Succeeded(value)
	if s.persist {
		if tok, ok := domain.SessionToken(value); ok {
			s.token = tok
			log.Debug("session token captured", "sessid", tok)
		}
	}
	return s
}

// assemble prepends the auth tuple once a session token exists.
func (s *Session) assemble(method string, params []domain.Value) ([]domain.Value, error) {
	if !s.persist || s.token == "" {
		args := make([]domain.Value, 0, len(params))
		return append(args, params...), nil
	}

	auth, err := s.BuildAuthParams(method)
	if err != nil {
		return nil, err
	}
	args := make([]domain.Value, 0, domain.AuthParamCount+len(params))
	args = append(args, auth.Values()...)
	return append(args, params...), nil
}

// classify reports a Send error on the diagnostic channel and maps it to
// a remote fault or a transport failure.
func (s *Session) classify(log logger.Logger, err error) error {
	if fault, ok := domain.AsFault(err); ok {
		log.Error("remote fault", "fault_code", fault.Code, "fault_string", fault.Message)
		return fault
	}

	log.Error("transport failure", "error", err)
	if errors.Is(err, domain.ErrTransport) {
		return err
	}
	return domain.ErrTransport.WithCause(err)
}

// SetDomain sets the caller domain. An empty name re-derives it from the
// identity provider.
func (s *Session) SetDomain(name string) *Session {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.identity.Name()
	}
	s.domain = name
	return s
}

// SetHeaders merges headers into the extra headers sent with every call.
// Existing entries are kept; only new header names are added.
func (s *Session) SetHeaders(headers map[string]string) *Session {
	for name, value := range headers {
		key := http.CanonicalHeaderKey(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, exists := s.headers[key]; exists {
			continue
		}
		s.headers[key] = value
	}
	return s
}

// SetPersist toggles token handling and failure short-circuiting.
func (s *Session) SetPersist(persist bool) *Session {
	s.persist = persist
	return s
}

// SetAPIKey replaces the shared secret. An empty key disables keyed auth.
func (s *Session) SetAPIKey(key string) *Session {
	s.apiKey = key
	return s
}

// Reset clears the last response back to Unset. The session token and all
// other settings are left untouched.
func (s *Session) Reset() *Session {
	s.response = domain.Unset()
	return s
}

// Response returns the outcome of the most recent call.
func (s *Session) Response() domain.Response {
	return s.response
}

// Err returns the cause of the last failure, if any.
func (s *Session) Err() error {
	return s.response.Err()
}

// Host returns the endpoint URI.
func (s *Session) Host() string { return s.host }

// Domain returns the caller domain.
func (s *Session) Domain() string { return s.domain }

// Persist reports whether persist mode is on.
func (s *Session) Persist() bool { return s.persist }

// HasAPIKey reports whether keyed auth is configured.
func (s *Session) HasAPIKey() bool { return s.apiKey != "" }

// SessionToken returns the captured session token, or "".
func (s *Session) SessionToken() string { return s.token }

// Headers returns a copy of the extra headers.
func (s *Session) Headers() map[string]string {
	return maps.Clone(s.headers)
}
