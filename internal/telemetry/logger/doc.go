// Package logger provides structured logging for xrpc.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, handler selection, dynamic level
//   - context.go: request and trace IDs carried on a context
//   - redact.go: masking of keys, signatures and session tokens
//
// The logger doubles as the non-fatal diagnostic channel of a session:
// faults and transport failures are reported here instead of aborting a
// call chain.
package logger
