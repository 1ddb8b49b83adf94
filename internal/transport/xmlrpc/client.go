package xmlrpc

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/xrpc-go/internal/core/domain"
	"github.com/yndnr/xrpc-go/internal/infra/buildinfo"
	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
)

// Client sends XML-RPC calls to one endpoint over HTTP.
// It is safe for concurrent use.
type Client struct {
	endpoint  string
	http      *http.Client
	timeout   time.Duration
	tlsConfig *tls.Config
	limiter   *rate.Limiter
	userAgent string
	maxBody   int64
	log       logger.Logger
}

// NewClient creates a client for endpoint. A missing scheme defaults to
// http://.
func NewClient(endpoint string, opts ...Option) *Client {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "http://" + endpoint
	}

	c := &Client{
		endpoint:  endpoint,
		timeout:   DefaultTimeout,
		userAgent: buildinfo.UserAgent(),
		maxBody:   DefaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.Default()
	}
	c.http = c.buildHTTPClient()
	return c
}

func (c *Client) buildHTTPClient() *http.Client {
	base := c.http
	if base == nil {
		base = &http.Client{}
	}
	hc := *base
	hc.Timeout = c.timeout

	if c.tlsConfig != nil {
		var tr *http.Transport
		if t, ok := hc.Transport.(*http.Transport); ok {
			tr = t.Clone()
		} else {
			tr = http.DefaultTransport.(*http.Transport).Clone()
		}
		tr.TLSClientConfig = c.tlsConfig
		hc.Transport = tr
	}
	return &hc
}

// Endpoint returns the URL calls are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send performs one call. It implements session.Transport.
func (c *Client) Send(ctx context.Context, method string, params []domain.Value, headers map[string]string) (domain.Value, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, transportError("rate limit wait", err)
		}
	}

	body, err := EncodeCall(method, params)
	if err != nil {
		return nil, transportError("encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, transportError("create request", err)
	}
	c.addHeaders(req, headers)

	log := logger.L(ctx, c.log)
	log.Debug("xmlrpc request", "method", method, "bytes", len(body))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError("post", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, transportError("read response", err)
	}
	log.Debug("xmlrpc response", "method", method, "status", resp.StatusCode, "bytes", len(data))

	switch {
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, domain.ErrTransport.WithDetails(fmt.Sprintf("unexpected status %d", resp.StatusCode))
	case len(bytes.TrimSpace(data)) == 0:
		return nil, domain.ErrTransport.WithDetails("empty response body")
	case int64(len(data)) > c.maxBody:
		return nil, domain.ErrTransport.WithDetails(fmt.Sprintf("response exceeds %d bytes", c.maxBody))
	}

	v, err := DecodeResponse(data)
	if err != nil {
		if _, ok := domain.AsFault(err); ok {
			return nil, err
		}
		return nil, transportError("decode", err)
	}
	return v, nil
}

// addHeaders applies the extra headers, then the fixed ones. Content-Type
// always stays text/xml.
func (c *Client) addHeaders(req *http.Request, headers map[string]string) {
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	req.Header.Set("Content-Type", "text/xml")
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

func transportError(step string, err error) error {
	return domain.ErrTransport.WithDetails(step).WithCause(err)
}
