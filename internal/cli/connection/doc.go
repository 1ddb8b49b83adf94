// Package connection turns a resolved CLI profile into a ready session.
//
// A Connection owns the XML-RPC client, its TLS watcher and the
// instrumented transport behind one session.Session. The Manager keeps
// the current connection and releases it on Disconnect, so the REPL can
// switch profiles without leaking certificate watchers.
package connection
