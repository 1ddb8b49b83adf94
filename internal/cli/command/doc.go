// Package command provides CLI command definitions for xrpc-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: root command, global flags and per-run state
//   - call.go: single remote call
//   - chain.go: YAML-scripted call chains on one session
//   - auth.go: key-authentication tuple inspection
//   - repl.go: interactive mode
//   - config.go: configuration file management
//   - version.go: build information
//
// Commands resolve the active profile, obtain a session from the
// connection manager and print results through the output package.
package command
