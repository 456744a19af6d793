package utils

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

const maskedValue = "***MASKED***"

var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"xi-api-key":    true,
	"x-api-key":     true,
}

// SanitizeHeaders flattens headers for logging with credentials masked
func SanitizeHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			out[key] = maskedValue
			continue
		}
		out[key] = strings.Join(values, ", ")
	}
	return out
}

// Truncate shortens s to at most max runes, marking the cut
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "...[truncated]"
}
