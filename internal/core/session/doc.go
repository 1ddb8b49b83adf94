// Package session implements the stateful call orchestration on top of a
// stateless RPC transport.
//
// A Session holds the endpoint identity (host, domain, API key), the
// session token issued by the remote end and the outcome of the most
// recent call. Calls are chained:
//
//	s := session.New(host, transport, session.WithAPIKey(key))
//	resp := s.Invoke(ctx, "system.connect").
//		Invoke(ctx, "user.login", user, pass).
//		Invoke(ctx, "node.save", node).
//		Response()
//
// Failures never abort a chain. They are recorded as a Failure response,
// reported on the session logger, and, while persist is enabled, turn every
// later Invoke into a no-op until Reset is called.
//
// Once a token has been captured (persist mode only) each call carries the
// key-authentication values as its first five positional parameters:
// signature, domain, timestamp, nonce and session token.
//
// A Session is not safe for concurrent use.
package session
