package domain

import (
	"crypto/sha256"
)

// FingerprintSize is the number of bytes of the context fingerprint embedded
// in every ciphertext envelope.
const FingerprintSize = 8

// RequestContext carries the request attributes the security core needs for
// attack scoring and context binding. It is built by the HTTP layer from the
// incoming request and passed into both the encryption engine and the
// threat-detection middleware.
type RequestContext struct {
	// SourceID identifies the request source, typically the client IP.
	SourceID string
	// UserAgent is the raw User-Agent header.
	UserAgent string
	// Path is the request URL path including the raw query string.
	Path string
	// Body is the raw request body (or the payload being protected),
	// capped by the caller.
	Body string
}

// Fingerprint returns a short digest over the stable part of the context
// (the source identifier). It is embedded in the ciphertext envelope at
// encrypt time and verified at decrypt time, making context binding explicit
// instead of relying on callers to reconstruct identical contexts: volatile
// attributes such as the user agent are deliberately excluded.
func (c RequestContext) Fingerprint() [FingerprintSize]byte {
	sum := sha256.Sum256([]byte(c.SourceID))

	var fp [FingerprintSize]byte
	copy(fp[:], sum[:FingerprintSize])
	return fp
}
