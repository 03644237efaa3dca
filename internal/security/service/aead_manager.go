package service

import (
	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
)

// AEADManagerService implements the AEADManager interface for creating AEAD cipher instances.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher creates an AEAD cipher instance for the specified algorithm.
// Returns ErrInvalidKeySize if key is not 32 bytes or ErrUnsupportedAlgorithm
// if the algorithm is unknown.
func (am *AEADManagerService) CreateCipher(
	key []byte,
	alg securityDomain.Algorithm,
) (AEAD, error) {
	if len(key) != 32 {
		return nil, securityDomain.ErrInvalidKeySize
	}

	switch alg {
	case securityDomain.AESGCM:
		return NewAESGCM(key)
	case securityDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, securityDomain.ErrUnsupportedAlgorithm
	}
}
