// sensitive.go
package logger

import (
	"regexp"
	"strings"
)

// SensitiveDataPatterns contains regex patterns for sensitive data that should be redacted in logs
var SensitiveDataPatterns = []*regexp.Regexp{
	// user:password@ in database DSNs
	regexp.MustCompile(`([A-Za-z0-9_]+:)([^@\s/]+)(@)`),
	// key=value secrets
	regexp.MustCompile(`(?i)((dsn|token|secret|passw(or)?d)[0-9a-z\-_\.]*[\s:=]+)([^;,\s]{3,})`),
}

// SensitiveKeywords are field keys whose string values are always redacted
var SensitiveKeywords = []string{"password", "passwd", "secret", "token", "dsn"}

// RedactSensitiveData replaces sensitive information with "[REDACTED]"
func RedactSensitiveData(input string) string {
	if input == "" {
		return input
	}
	input = SensitiveDataPatterns[0].ReplaceAllString(input, "$1[REDACTED]$3")
	return SensitiveDataPatterns[1].ReplaceAllString(input, "$1[REDACTED]")
}

// isSensitiveKey reports whether a field key names a secret
func isSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, sensitiveKey := range SensitiveKeywords {
		if strings.Contains(keyLower, sensitiveKey) {
			return true
		}
	}
	return false
}
