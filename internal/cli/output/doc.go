// Package output formats call results for xrpc-cli.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: table rendering of decoded values
//   - json.go: JSON output
//   - yaml.go: YAML output
//
// Decoded XML-RPC values arrive as map[string]any, []any and Go scalars.
// The table formatter lays structs out as KEY/VALUE rows and arrays of
// structs as one row per element; json and yaml are meant for scripting.
package output
