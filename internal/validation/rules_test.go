package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/SmartGenzAI1/securevibe/internal/errors"
)

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{
			name:      "non-empty string",
			value:     "hello",
			shouldErr: false,
		},
		{
			name:      "whitespace only",
			value:     "   \t\n",
			shouldErr: true,
		},
		{
			name:      "string with surrounding whitespace",
			value:     "  hello  ",
			shouldErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.value)
			if tt.shouldErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "must not be blank")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBase64(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{
			name:      "valid base64",
			value:     "aGVsbG8gd29ybGQ=",
			shouldErr: false,
		},
		{
			name:      "empty string is skipped",
			value:     "",
			shouldErr: false,
		},
		{
			name:      "invalid characters",
			value:     "not base64!!!",
			shouldErr: true,
		},
		{
			name:      "bad padding",
			value:     "aGVsbG8",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, Base64)
			if tt.shouldErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "base64")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWrapValidationError(t *testing.T) {
	t.Run("wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(validation.NewError("validation_test", "field is wrong"))

		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "field is wrong")
	})

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})
}
