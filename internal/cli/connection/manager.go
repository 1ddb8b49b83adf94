package connection

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/yndnr/xrpc-go/internal/cli/config"
	"github.com/yndnr/xrpc-go/internal/core/session"
	"github.com/yndnr/xrpc-go/internal/infra/tlsroots"
	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
	"github.com/yndnr/xrpc-go/internal/telemetry/metric"
	"github.com/yndnr/xrpc-go/internal/transport"
	"github.com/yndnr/xrpc-go/internal/transport/xmlrpc"
)

// ErrNotConnected is returned when an operation needs a current connection.
var ErrNotConnected = errors.New("not connected")

// Connection is one wired session to a remote endpoint.
type Connection struct {
	Name    string
	Profile config.Profile
	Session *session.Session
	Client  *xmlrpc.Client

	tls *tlsroots.Client
}

// Close stops the certificate watcher, if any.
func (c *Connection) Close() error {
	if c.tls == nil {
		return nil
	}
	return c.tls.Close()
}

// Manager manages the current connection.
type Manager struct {
	log     logger.Logger
	metrics *metric.Registry
	tracer  trace.Tracer
	current *Connection
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger handed to sessions and transports.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithMetrics records call metrics into r.
func WithMetrics(r *metric.Registry) Option {
	return func(m *Manager) {
		m.metrics = r
	}
}

// WithTracer records a span per call.
func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) {
		m.tracer = t
	}
}

// NewManager creates a new connection manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{log: logger.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect builds a session for the profile and makes it current. The
// previous connection, if any, is closed first. No request is sent.
// Extra session options are applied after those derived from p.
func (m *Manager) Connect(name string, p config.Profile, extra ...session.Option) (*Connection, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	timeout, err := p.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}

	log := m.log.With("profile", name)

	copts := []xmlrpc.Option{xmlrpc.WithLogger(log)}
	if timeout > 0 {
		copts = append(copts, xmlrpc.WithTimeout(timeout))
	}
	if p.RateLimit > 0 {
		copts = append(copts, xmlrpc.WithRateLimit(p.RateLimit, max(p.Burst, 1)))
	}
	if p.UserAgent != "" {
		copts = append(copts, xmlrpc.WithUserAgent(p.UserAgent))
	}

	var tlsClient *tlsroots.Client
	tlsOpts := tlsroots.ClientOptions{
		CAFile:             p.TLS.CAFile,
		CertFile:           p.TLS.CertFile,
		KeyFile:            p.TLS.KeyFile,
		ServerName:         p.TLS.ServerName,
		InsecureSkipVerify: p.TLS.InsecureSkipVerify,
	}
	if !tlsOpts.IsZero() {
		tlsClient, err = tlsroots.NewClient(tlsOpts, tlsroots.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		if err := tlsClient.Start(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		if p.TLS.InsecureSkipVerify {
			log.Warn("TLS certificate verification disabled")
		}
		copts = append(copts, xmlrpc.WithTLSConfig(tlsClient.Config()))
	}

	client := xmlrpc.NewClient(p.Host, copts...)

	sopts := []session.Option{
		session.WithAPIKey(p.APIKey),
		session.WithDomain(p.Domain),
		session.WithHeaders(p.Headers),
		session.WithLogger(log),
	}
	if p.Persist != nil {
		sopts = append(sopts, session.WithPersist(*p.Persist))
	}
	sopts = append(sopts, extra...)
	sess := session.New(client.Endpoint(),
		transport.Instrument(client, m.metrics, m.tracer), sopts...)

	conn := &Connection{
		Name:    name,
		Profile: p,
		Session: sess,
		Client:  client,
		tls:     tlsClient,
	}

	if err := m.Disconnect(); err != nil {
		log.Warn("close previous connection", "error", err)
	}
	m.current = conn

	log.Debug("connected", "host", client.Endpoint(), "persist", sess.Persist())
	return conn, nil
}

// Disconnect closes the current connection.
func (m *Manager) Disconnect() error {
	if m.current == nil {
		return nil
	}
	err := m.current.Close()
	m.current = nil
	return err
}

// Current returns the current connection.
func (m *Manager) Current() *Connection {
	return m.current
}

// Session returns the current session or ErrNotConnected.
func (m *Manager) Session() (*session.Session, error) {
	if m.current == nil {
		return nil, ErrNotConnected
	}
	return m.current.Session, nil
}

// IsConnected returns true if a connection is current.
func (m *Manager) IsConnected() bool {
	return m.current != nil
}
