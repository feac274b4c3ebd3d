package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Attribute keys whose values are always masked, regardless of content.
// Matching is case-insensitive and substring-based, so "auth_token" and
// "Authorization" both qualify.
var sensitiveKeys = []string{
	"token",
	"authorization",
	"signature",
	"password",
	"secret",
}

// Patterns that catch credentials embedded inside free-form string values,
// such as a dumped request header.
var sensitivePatterns = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	// Bearer tokens in Authorization headers
	{regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-._~+/]+=*`), "Bearer ***"},
	// JWT-shaped tokens (three base64url segments)
	{regexp.MustCompile(`\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\b`), "***"},
}

// redactAttr is a slog ReplaceAttr hook that masks sensitive attributes.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, maskValue(a.Value.String()))
	}
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, RedactString(a.Value.String()))
	}
	return a
}

// RedactString masks credential-shaped substrings in s.
func RedactString(s string) string {
	if s == "" {
		return s
	}
	for _, p := range sensitivePatterns {
		s = p.regex.ReplaceAllString(s, p.replacement)
	}
	return s
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// maskValue hides a sensitive value, keeping a short prefix so operators can
// tell credentials apart without exposing them.
func maskValue(value string) string {
	if len(value) <= 4 {
		return "***"
	}
	return value[:4] + "***"
}
