// Package buildinfo exposes version metadata for xrpc-cli.
//
// Version, Commit and BuildTime are injected with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/xrpc-go/internal/infra/buildinfo.Version=v1.0.0"
//
// GoVersion falls back to the toolchain recorded in the binary.
package buildinfo
