package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCORSMiddleware(t *testing.T) {
	logger := testLogger()

	t.Run("disabled returns nil", func(t *testing.T) {
		middleware := createCORSMiddleware(false, "https://example.com", logger)
		assert.Nil(t, middleware)
	})

	t.Run("enabled without origins returns nil", func(t *testing.T) {
		middleware := createCORSMiddleware(true, "", logger)
		assert.Nil(t, middleware)
	})

	t.Run("enabled with only whitespace origins returns nil", func(t *testing.T) {
		middleware := createCORSMiddleware(true, " , , ", logger)
		assert.Nil(t, middleware)
	})

	t.Run("enabled with origins returns middleware", func(t *testing.T) {
		middleware := createCORSMiddleware(true, "https://example.com,https://app.example.com", logger)
		assert.NotNil(t, middleware)
	})
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single origin",
			input:    "https://example.com",
			expected: []string{"https://example.com"},
		},
		{
			name:     "multiple origins",
			input:    "https://example.com,https://app.example.com",
			expected: []string{"https://example.com", "https://app.example.com"},
		},
		{
			name:     "origins with whitespace",
			input:    " https://example.com , https://app.example.com ",
			expected: []string{"https://example.com", "https://app.example.com"},
		},
		{
			name:     "empty entries are dropped",
			input:    "https://example.com,,https://app.example.com,",
			expected: []string{"https://example.com", "https://app.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origins := parseOrigins(tt.input)
			if tt.expected == nil {
				assert.Empty(t, origins)
			} else {
				assert.Equal(t, tt.expected, origins)
			}
		})
	}
}
