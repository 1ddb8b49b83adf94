// Package domain defines the core domain models for xrpc.
//
// Domain models are pure values without any IO dependencies. This
// package contains:
//
//   - Response: the tri-state outcome of the most recent remote call
//   - AuthParams: the key-authentication values sent with protected calls
//   - Errors: structured error codes and the remote fault descriptor
//
// Values exchanged with the remote end are untyped (see Value) and mirror
// the XML-RPC data model: structs decode to map[string]any, arrays to
// []any, everything else to Go scalars.
package domain
