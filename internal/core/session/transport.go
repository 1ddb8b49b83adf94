package session

import (
	"context"

	"github.com/yndnr/xrpc-go/internal/core/domain"
)

// Transport performs one blocking RPC exchange.
//
// Send returns the decoded result on success. A remote fault is reported
// as an error wrapping *domain.FaultError; any other error is treated as a
// transport failure. Timeouts and cancellation are the transport's
// concern and surface as ordinary errors.
type Transport interface {
	Send(ctx context.Context, method string, params []domain.Value, headers map[string]string) (domain.Value, error)
}

// TransportFunc adapts a function into a Transport.
type TransportFunc func(ctx context.Context, method string, params []domain.Value, headers map[string]string) (domain.Value, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, method string, params []domain.Value, headers map[string]string) (domain.Value, error) {
	return f(ctx, method, params, headers)
}

// Identity supplies the default caller domain.
type Identity interface {
	Name() string
}
