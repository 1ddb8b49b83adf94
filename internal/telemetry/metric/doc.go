// Package metric holds the Prometheus metrics for RPC calls.
//
// The CLI is short lived, so metrics are not scraped over HTTP. Instead
// the registry is written to a file in the text exposition format at exit,
// ready for the node_exporter textfile collector.
package metric
