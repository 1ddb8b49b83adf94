// Package tracer configures OpenTelemetry tracing.
//
// With an OTLP endpoint configured, spans are batched and exported over
// OTLP/HTTP. Without one the provider is a no-op, so instrumented code
// never needs to check whether tracing is on.
package tracer
