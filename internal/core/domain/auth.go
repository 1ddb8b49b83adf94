package domain

import "strings"

// AuthParamCount is the number of positional values in an auth tuple.
const AuthParamCount = 5

// AuthParams are the key-authentication values prepended to a protected
// call once a session token has been issued.
type AuthParams struct {
	Signature    string // hex HMAC-SHA256 over SigningMessage
	Domain       string
	Timestamp    string // Unix seconds, decimal
	Nonce        string
	SessionToken string
}

// Values returns the tuple in wire order:
// signature, domain, timestamp, nonce, session token.
func (p AuthParams) Values() []Value {
	return []Value{p.Signature, p.Domain, p.Timestamp, p.Nonce, p.SessionToken}
}

// SigningMessage builds the message covered by the signature.
func SigningMessage(timestamp, domain, nonce, method string) string {
	return strings.Join([]string{timestamp, domain, nonce, method}, ";")
}
