// Package repl provides the interactive mode of xrpc-cli.
//
// Each input line is either a builtin (":reset", ":token", "help" and so
// on) or a remote call written as METHOD ARG... where every ARG is a JSON
// literal or, failing that, a plain string. All calls share one session,
// so a failed call halts the chain until ":reset".
//
//   - repl.go: main loop and builtin dispatch
//   - args.go: argument parsing shared with the call command
//   - reader.go: terminal line editing (liner) and plain input
//   - completer.go: prefix completion of builtins and used methods
//   - history.go: history persistence
package repl
