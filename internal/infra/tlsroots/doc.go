// Package tlsroots builds client TLS configuration for RPC endpoints.
//
//   - roots.go: system roots plus extra CA files
//   - watcher.go: client certificate hot reload via fsnotify
//   - client.go: assembles both into a *tls.Config
package tlsroots
