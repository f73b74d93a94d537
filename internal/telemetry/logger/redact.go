package logger

import (
	"log/slog"
	"strings"
)

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
	"bearer",
}

// jwtPrefix starts every base64url-encoded JSON JOSE header.
const jwtPrefix = "eyJ"

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if IsSensitiveValue(strVal) {
			return slog.String(a.Key, RedactString(strVal))
		}
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// RedactString masks a JWT, keeping only the first few characters of
// its header. Other values are returned unchanged.
func RedactString(value string) string {
	v := strings.TrimPrefix(value, "Bearer ")
	if !looksLikeJWT(v) {
		return value
	}
	return v[:6] + "..." + redactedValue
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether value is, or carries, a JWT.
func IsSensitiveValue(value string) bool {
	return looksLikeJWT(strings.TrimPrefix(value, "Bearer "))
}

func looksLikeJWT(v string) bool {
	return strings.HasPrefix(v, jwtPrefix) && strings.Count(v, ".") == 2 && len(v) > 10
}
