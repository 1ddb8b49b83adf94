package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Sign computes the hex-encoded HMAC-SHA256 of message keyed with key.
func Sign(key, message string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature is the HMAC of message under key.
//
// Uses constant-time comparison to prevent timing attacks.
func VerifySignature(key, message, signature string) bool {
	expected := Sign(key, message)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
