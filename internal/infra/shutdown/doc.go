// Package shutdown coordinates cleanup for the CLI.
//
// Resources with deferred work (tracer flush, metrics textfile, TLS
// watcher) register a hook. The hooks run once, in reverse order, when
// the command returns or the process receives SIGINT/SIGTERM.
package shutdown
