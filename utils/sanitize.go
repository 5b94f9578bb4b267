package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var invalidNameRe = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)

// SanitizeInput drops control characters from free text and trims it
func SanitizeInput(input string) string {
	sanitized := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return strings.TrimSpace(sanitized)
}

// FormatProjectName turns an app name into a directory name
func FormatProjectName(name string) string {
	// Replace spaces and other invalid characters with hyphens
	formatted := invalidNameRe.ReplaceAllString(strings.TrimSpace(name), "-")
	formatted = strings.ToLower(strings.Trim(formatted, "-_"))

	// If the name is not empty and starts with a number, prepend "app-"
	if len(formatted) > 0 && strings.IndexAny(formatted[0:1], "0123456789") == 0 {
		formatted = "app-" + formatted
	}

	// If the name is empty after formatting, use a default name
	if formatted == "" {
		formatted = "dapp-ui"
	}

	return formatted
}

// TruncateString truncates a string to the specified length, adding an ellipsis if truncated
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}
