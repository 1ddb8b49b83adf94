package logger

import (
	"log/slog"
	"strings"
)

// Keys whose values are replaced entirely.
var secretKeyPatterns = []string{
	"password",
	"passwd",
	"secret",
	"api_key",
	"apikey",
	"credential",
	"authorization",
	"signature",
}

// Keys whose values are partially masked; they still help correlate calls.
var maskedKeyPatterns = []string{
	"sessid",
	"session_token",
	"nonce",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}
	val := a.Value.String()
	if val == "" {
		return a
	}

	key := strings.ToLower(a.Key)
	if matchesAny(key, secretKeyPatterns) {
		return slog.String(a.Key, redactedValue)
	}
	if matchesAny(key, maskedKeyPatterns) {
		return slog.String(a.Key, MaskValue(val))
	}
	return a
}

func matchesAny(key string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(key, p) {
			return true
		}
	}
	return false
}

// MaskValue keeps the first and last three characters of value.
// Values of six characters or fewer are masked completely.
func MaskValue(value string) string {
	if len(value) <= 6 {
		return "***"
	}
	return value[:3] + "..." + value[len(value)-3:]
}

// IsSensitiveKey reports whether a key name is redacted or masked in logs.
func IsSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	return matchesAny(key, secretKeyPatterns) || matchesAny(key, maskedKeyPatterns)
}
