// Package transport holds cross-cutting decorators for session transports.
// The concrete wire transport lives in the xmlrpc subpackage.
package transport
