// Command xrpc-cli calls XML-RPC endpoints from the shell.
//
// It runs single calls, scripted chains and an interactive session
// against a profile from ~/.xrpc/cli.yaml, signing calls with the
// profile's API key when one is configured.
package main
