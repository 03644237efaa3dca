// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/SmartGenzAI1/securevibe/internal/validation"
)

// EncryptRequest contains the parameters for encrypting data.
type EncryptRequest struct {
	Plaintext string `json:"plaintext"` // Base64-encoded plaintext
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
	)
}

// DecryptRequest contains the parameters for decrypting data.
type DecryptRequest struct {
	Ciphertext string `json:"ciphertext"`
}

// Validate checks if the decrypt request is valid.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
