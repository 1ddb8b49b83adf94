package tlsroots

import (
	"crypto/tls"
	"errors"
	"fmt"
)

// ClientOptions describes the TLS settings of one endpoint profile.
type ClientOptions struct {
	CAFile             string
	CertFile           string
	KeyFile            string
	ServerName         string
	InsecureSkipVerify bool
}

// IsZero reports whether no TLS setting was given.
func (o ClientOptions) IsZero() bool {
	return o == ClientOptions{}
}

// Client is a client *tls.Config together with the watcher that keeps
// its certificate current, if any.
type Client struct {
	config  *tls.Config
	watcher *Watcher
}

// NewClient builds the TLS config. A client certificate is watched for
// changes once Start is called.
func NewClient(opts ClientOptions, wopts ...WatcherOption) (*Client, error) {
	if (opts.CertFile == "") != (opts.KeyFile == "") {
		return nil, errors.New("tlsroots: cert_file and key_file must be set together")
	}

	pool := NewPool()
	if opts.CAFile != "" {
		if err := pool.AddCertFile(opts.CAFile); err != nil {
			return nil, err
		}
	}

	cfg := pool.TLSConfig()
	cfg.ServerName = opts.ServerName
	cfg.InsecureSkipVerify = opts.InsecureSkipVerify

	c := &Client{config: cfg}
	if opts.CertFile != "" {
		w, err := NewWatcher(opts.CertFile, opts.KeyFile, wopts...)
		if err != nil {
			return nil, err
		}
		cfg.GetClientCertificate = w.GetClientCertificate
		c.watcher = w
	}
	return c, nil
}

// Config returns the TLS configuration.
func (c *Client) Config() *tls.Config {
	return c.config
}

// Start begins watching the client certificate, if one is configured.
func (c *Client) Start() error {
	if c.watcher == nil {
		return nil
	}
	if err := c.watcher.Start(); err != nil {
		return fmt.Errorf("tlsroots: start watcher: %w", err)
	}
	return nil
}

// Close stops the watcher.
func (c *Client) Close() error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Stop()
}
