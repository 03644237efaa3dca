// Package service implements the security core: the layered encryption engine
// with scheduled key rotation, the shared attack-pattern detector, the bounded
// security event log, and the sliding-window limiters used by the
// threat-detection middleware.
package service

import (
	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg securityDomain.Algorithm) (AEAD, error)
}
