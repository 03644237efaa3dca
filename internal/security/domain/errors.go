package domain

import (
	"github.com/SmartGenzAI1/securevibe/internal/errors"
)

// Security core error taxonomy.
//
// These sentinels wrap the standard errors from internal/errors so the HTTP
// layer can map them to status codes. The detailed cause of any cryptographic
// failure is written to the security event log only; callers always receive
// the generic taxonomy error.
var (
	// ErrSecurityViolation is returned when attack-pattern detection flags a
	// request. It is deliberately indistinguishable from a generic failure so
	// the specific check that tripped is never disclosed.
	//
	// HTTP Status: 403 Forbidden
	ErrSecurityViolation = errors.Wrap(errors.ErrForbidden, "security violation detected")

	// ErrEncryptionFailed is the generic wrapper over any internal failure
	// during encryption. The real cause is kept server-side.
	//
	// HTTP Status: 500 Internal Server Error
	ErrEncryptionFailed = errors.Wrap(errors.ErrInternal, "encryption failed")

	// ErrInvalidSignature indicates a signature check failed: either the
	// ciphertext's leading magic signature did not match, or an HMAC request
	// signature could not be verified.
	//
	// HTTP Status: 401 Unauthorized
	ErrInvalidSignature = errors.Wrap(errors.ErrUnauthorized, "invalid signature")

	// ErrDecryptionIntegrity indicates the recovered plaintext failed its
	// shape validation after full layer reversal, which is treated as a
	// possible tampering attempt.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrDecryptionIntegrity = errors.Wrap(errors.ErrInvalidInput, "decryption integrity violation")

	// ErrDecryptionFailed is the generic wrapper over any internal failure
	// during decryption (wrong key, malformed buffer, authentication failure).
	// The real cause is kept server-side.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrRateLimitExceeded indicates the per-(identifier, path) request
	// ceiling was exceeded within the current window.
	//
	// HTTP Status: 429 Too Many Requests (with Retry-After)
	ErrRateLimitExceeded = errors.Wrap(errors.ErrTooManyRequests, "rate limit exceeded")

	// ErrUsageLimitExceeded indicates an elevated-tier principal exhausted
	// its usage quota for the current window.
	//
	// HTTP Status: 429 Too Many Requests (with Retry-After)
	ErrUsageLimitExceeded = errors.Wrap(errors.ErrTooManyRequests, "usage limit exceeded")

	// ErrUpgradeRequired indicates a base-tier principal exhausted its quota;
	// further usage requires the elevated tier.
	//
	// HTTP Status: 429 Too Many Requests (with Retry-After)
	ErrUpgradeRequired = errors.Wrap(errors.ErrTooManyRequests, "base tier quota exhausted, upgrade required")

	// ErrUnsupportedAlgorithm indicates the configured AEAD algorithm is not
	// supported. Supported: aes-gcm, chacha20-poly1305.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a cryptographic key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")
)
