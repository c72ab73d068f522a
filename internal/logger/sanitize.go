package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength is the maximum length for URL paths in logs
	MaxPathLength = 500
	// MaxErrorMessageLength is the maximum length for error messages in logs
	MaxErrorMessageLength = 1000
)

// SanitizePath sanitizes a URL path for safe logging.
// Removes control characters, truncates, and validates UTF-8.
func SanitizePath(path string) string {
	return sanitize(path, MaxPathLength)
}

// SanitizeError sanitizes an error message for safe logging
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return sanitize(err.Error(), MaxErrorMessageLength)
}

// RedactToken returns a loggable form of a secret: empty stays empty,
// everything else becomes a fixed-length prefix. GitHub access tokens and
// session JWTs must never appear whole in logs.
func RedactToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****"
}

func sanitize(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()
	if len(s) > maxLength {
		s = s[:maxLength] + "..."
	}
	return s
}
