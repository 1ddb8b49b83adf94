// Package xmlrpc provides the HTTP transport used by sessions.
//
// Client encodes calls with github.com/kolo/xmlrpc, posts them as
// text/xml and decodes the reply into the dynamic value model (map[string]any,
// []any, scalars). A <fault> reply is returned as *domain.FaultError; every
// other failure is wrapped in domain.ErrTransport.
package xmlrpc
