// Package config provides CLI configuration for xrpc-cli.
//
// This package defines CLI-specific configuration:
//
//   - spec.go: CLIConfig and Profile (~/.xrpc/cli.yaml)
//   - loader.go: loading, saving and flag overrides
//
// A profile names one remote endpoint together with the credentials and
// transport settings used to reach it. Values are merged with priority
// flag > environment (XRPC_) > file > defaults.
package config
