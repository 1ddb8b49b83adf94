package domain

import "fmt"

// Value is a dynamically typed payload mirroring the XML-RPC data model.
type Value = any

// SessionTokenField is the response field carrying the session token.
const SessionTokenField = "sessid"

// SessionToken extracts the session token from a decoded response.
// Only struct-shaped responses (map[string]any) carry one. Non-string
// token values are rendered with fmt.Sprint; a nil value yields no token.
func SessionToken(v Value) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	raw, ok := m[SessionTokenField]
	if !ok || raw == nil {
		return "", false
	}
	if s, ok := raw.(string); ok {
		return s, true
	}
	return fmt.Sprint(raw), true
}
