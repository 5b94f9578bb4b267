package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatProjectName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Token Desk", "token-desk"},
		{"  Vault  Staking!! ", "vault-staking"},
		{"1inch Swap", "app-1inch-swap"},
		{"__", "dapp-ui"},
		{"", "dapp-ui"},
		{"my_app", "my_app"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatProjectName(tt.input))
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "show balances first", SanitizeInput("  show balances\x00 first\x07 "))
	assert.Equal(t, "line one line two", SanitizeInput("line one\nline two"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcdefg...", TruncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}
