package service

import (
	"bytes"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
)

// Ciphertext envelope layout (before base64 encoding):
//
//	magic(4) | version(1) | fingerprint(8) | issuedAt(8) | nonce3(12) | ct3
//
// ct3 unseals to nonce2|ct2, ct2 unseals to nonce1|ct1, and ct1 unseals to
// the inner plaintext prefixed by its own magic. The layout is a private
// contract between Encrypt and Decrypt in the same process; it is never
// parsed by an external system.
var (
	envelopeMagic  = []byte("SVBE")
	plaintextMagic = []byte("SVPT")
)

const (
	envelopeVersion = 0x01

	// nonceSize is the AEAD nonce size. Both supported algorithms (AES-GCM
	// and ChaCha20-Poly1305) use 12-byte nonces.
	nonceSize = 12

	// headerSize is magic + version + fingerprint + issuedAt.
	headerSize = 4 + 1 + securityDomain.FingerprintSize + 8

	// LayerCount is the number of authenticated-encryption layers applied
	// per operation.
	LayerCount = 3
)

// Per-layer associated data. Layer 3 authenticates the envelope header
// instead, binding the outer ciphertext to the magic, fingerprint, and
// issuance timestamp.
var (
	aadLayer1 = []byte("securevibe/layer-1")
	aadLayer2 = append(append([]byte(nil), serviceSignature...), []byte("/layer-2")...)
)

// Engine is the layered encryption engine. It owns the rotating master key,
// performs three-layer authenticated encryption, runs attack-pattern
// detection inline before any plaintext is touched, and appends to the
// shared security event log.
//
// Error policy: low-level cryptographic failures are never surfaced.
// Callers receive the generic taxonomy error for the operation while the
// real cause is written to the event log only. Flagged requests go through
// the honeytrap path and are indistinguishable from generic failures.
type Engine struct {
	masterKey *RotatingMasterKey
	aead      AEADManager
	alg       securityDomain.Algorithm
	detector  *Detector
	events    *EventLog
	logger    *slog.Logger
}

// NewEngine creates the encryption engine. The detector and event log are
// shared with the threat-detection middleware; both components observe the
// same per-identifier attack table and write to the same log.
func NewEngine(
	masterKey *RotatingMasterKey,
	aead AEADManager,
	alg securityDomain.Algorithm,
	detector *Detector,
	events *EventLog,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		masterKey: masterKey,
		aead:      aead,
		alg:       alg,
		detector:  detector,
		events:    events,
		logger:    logger,
	}
}

// Encrypt applies the three encryption layers to plaintext bound to the
// request context and returns the base64-encoded envelope.
//
// The rotation check runs first; attack-pattern detection runs before any
// cryptographic work. A flagged request produces no ciphertext: it is logged
// as a security incident and answered through the honeytrap path with
// ErrSecurityViolation. Any internal failure is logged with its real cause
// and surfaced as ErrEncryptionFailed.
func (e *Engine) Encrypt(plaintext string, reqCtx securityDomain.RequestContext) (string, error) {
	masterKey, err := e.currentKey(reqCtx)
	if err != nil {
		e.fail(securityDomain.EventEncryption, reqCtx, err)
		return "", securityDomain.ErrEncryptionFailed
	}
	defer securityDomain.Zero(masterKey)

	if flagged, _ := e.detector.Inspect(reqCtx); flagged {
		return "", e.triggerSecurityResponse(reqCtx, securityDomain.ErrSecurityViolation)
	}

	fp := reqCtx.Fingerprint()
	header := e.buildHeader(fp)

	// Layer 1: session-keyed AEAD over the magic-prefixed plaintext.
	inner := append(append([]byte(nil), plaintextMagic...), plaintext...)
	layer1, err := e.seal(masterKey, fp[:], 1, inner, aadLayer1)
	if err != nil {
		e.fail(securityDomain.EventEncryption, reqCtx, err)
		return "", securityDomain.ErrEncryptionFailed
	}

	// Layer 2: a second independent session-keyed AEAD envelope, bound to
	// the fixed service signature through its associated data.
	layer2, err := e.seal(masterKey, fp[:], 2, layer1, aadLayer2)
	if err != nil {
		e.fail(securityDomain.EventEncryption, reqCtx, err)
		return "", securityDomain.ErrEncryptionFailed
	}

	// Layer 3: keyed by the current master key, authenticating the header.
	cipher, err := e.aead.CreateCipher(masterKey, e.alg)
	if err != nil {
		e.fail(securityDomain.EventEncryption, reqCtx, err)
		return "", securityDomain.ErrEncryptionFailed
	}
	ct3, nonce3, err := cipher.Encrypt(layer2, header)
	if err != nil {
		e.fail(securityDomain.EventEncryption, reqCtx, err)
		return "", securityDomain.ErrEncryptionFailed
	}

	envelope := make([]byte, 0, len(header)+nonceSize+len(ct3))
	envelope = append(envelope, header...)
	envelope = append(envelope, nonce3...)
	envelope = append(envelope, ct3...)

	e.events.Append(securityDomain.NewSecurityEvent(
		securityDomain.EventEncryption,
		securityDomain.StatusSuccess,
		reqCtx.SourceID,
		e.detector.Level(reqCtx.SourceID),
		"",
	))

	return base64.StdEncoding.EncodeToString(envelope), nil
}

// Decrypt reverses the three layers of a ciphertext produced by Encrypt
// under the same context convention.
//
// The leading magic signature is verified before any other processing; a
// mismatch (including undecodable or truncated input) fails closed through
// the honeytrap path with ErrInvalidSignature. A context fingerprint or
// recovered-plaintext shape mismatch is treated as possible tampering
// (ErrDecryptionIntegrity). All other failures, including decryption under a
// rotated master key, surface as ErrDecryptionFailed.
func (e *Engine) Decrypt(ciphertext string, reqCtx securityDomain.RequestContext) (string, error) {
	masterKey, err := e.currentKey(reqCtx)
	if err != nil {
		e.fail(securityDomain.EventDecryption, reqCtx, err)
		return "", securityDomain.ErrDecryptionFailed
	}
	defer securityDomain.Zero(masterKey)

	envelope, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil || len(envelope) < headerSize+nonceSize {
		return "", e.triggerSecurityResponse(reqCtx, securityDomain.ErrInvalidSignature)
	}
	if subtle.ConstantTimeCompare(envelope[:len(envelopeMagic)], envelopeMagic) != 1 {
		return "", e.triggerSecurityResponse(reqCtx, securityDomain.ErrInvalidSignature)
	}
	if envelope[len(envelopeMagic)] != envelopeVersion {
		return "", e.triggerSecurityResponse(reqCtx, securityDomain.ErrInvalidSignature)
	}

	header := envelope[:headerSize]
	embedded := header[len(envelopeMagic)+1 : len(envelopeMagic)+1+securityDomain.FingerprintSize]
	fp := reqCtx.Fingerprint()
	if subtle.ConstantTimeCompare(embedded, fp[:]) != 1 {
		return "", e.triggerSecurityResponse(reqCtx, securityDomain.ErrDecryptionIntegrity)
	}

	nonce3 := envelope[headerSize : headerSize+nonceSize]
	ct3 := envelope[headerSize+nonceSize:]

	cipher, err := e.aead.CreateCipher(masterKey, e.alg)
	if err != nil {
		e.fail(securityDomain.EventDecryption, reqCtx, err)
		return "", securityDomain.ErrDecryptionFailed
	}
	layer2, err := cipher.Decrypt(ct3, nonce3, header)
	if err != nil {
		e.fail(securityDomain.EventDecryption, reqCtx, err)
		return "", securityDomain.ErrDecryptionFailed
	}

	layer1, err := e.unseal(masterKey, fp[:], 2, layer2, aadLayer2)
	if err != nil {
		e.fail(securityDomain.EventDecryption, reqCtx, err)
		return "", securityDomain.ErrDecryptionFailed
	}

	inner, err := e.unseal(masterKey, fp[:], 1, layer1, aadLayer1)
	if err != nil {
		e.fail(securityDomain.EventDecryption, reqCtx, err)
		return "", securityDomain.ErrDecryptionFailed
	}

	if !bytes.HasPrefix(inner, plaintextMagic) {
		return "", e.triggerSecurityResponse(reqCtx, securityDomain.ErrDecryptionIntegrity)
	}

	e.events.Append(securityDomain.NewSecurityEvent(
		securityDomain.EventDecryption,
		securityDomain.StatusSuccess,
		reqCtx.SourceID,
		e.detector.Level(reqCtx.SourceID),
		"",
	))

	return string(inner[len(plaintextMagic):]), nil
}

// EmergencyRotate forces immediate master key regeneration. Administrative,
// out-of-band: intended for incident response.
func (e *Engine) EmergencyRotate() error {
	if err := e.masterKey.EmergencyRotate(); err != nil {
		e.events.Append(securityDomain.NewSecurityEvent(
			securityDomain.EventEmergencyKeyRotation,
			securityDomain.StatusFailed,
			"admin",
			e.detector.MaxLevel(),
			err.Error(),
		))
		return securityDomain.ErrEncryptionFailed
	}

	e.events.Append(securityDomain.NewSecurityEvent(
		securityDomain.EventEmergencyKeyRotation,
		securityDomain.StatusSuccess,
		"admin",
		e.detector.MaxLevel(),
		"",
	))
	e.logger.Warn("emergency key rotation executed")
	return nil
}

// Status returns the read-only security snapshot for operational tooling.
func (e *Engine) Status() securityDomain.Status {
	return securityDomain.Status{
		ThreatLevel:        e.detector.MaxLevel(),
		ActivePatternCount: e.detector.ActiveCount(),
		EventCount:         e.events.Len(),
		LastKeyRotation:    e.masterKey.LastRotation(),
		LayerCount:         LayerCount,
		Algorithm:          e.alg,
	}
}

// currentKey runs the inline rotation check and logs a KEY_ROTATION event
// when this call crossed the rotation-interval threshold.
func (e *Engine) currentKey(reqCtx securityDomain.RequestContext) ([]byte, error) {
	key, rotated, err := e.masterKey.Snapshot()
	if err != nil {
		return nil, err
	}
	if rotated {
		e.events.Append(securityDomain.NewSecurityEvent(
			securityDomain.EventKeyRotation,
			securityDomain.StatusSuccess,
			reqCtx.SourceID,
			e.detector.Level(reqCtx.SourceID),
			"rotation interval elapsed",
		))
		e.logger.Info("master key rotated", slog.String("trigger", "interval"))
	}
	return key, nil
}

// seal encrypts payload under the session key for the given layer and
// prefixes the nonce, producing nonce|ciphertext.
func (e *Engine) seal(masterKey, fingerprint []byte, layer int, payload, aad []byte) ([]byte, error) {
	key, err := deriveLayerKey(masterKey, fingerprint, layer)
	if err != nil {
		return nil, err
	}
	defer securityDomain.Zero(key)

	cipher, err := e.aead.CreateCipher(key, e.alg)
	if err != nil {
		return nil, err
	}

	ct, nonce, err := cipher.Encrypt(payload, aad)
	if err != nil {
		return nil, err
	}
	return append(nonce, ct...), nil
}

// unseal reverses seal for the given layer.
func (e *Engine) unseal(masterKey, fingerprint []byte, layer int, payload, aad []byte) ([]byte, error) {
	if len(payload) < nonceSize {
		return nil, fmt.Errorf("layer %d payload too short", layer)
	}

	key, err := deriveLayerKey(masterKey, fingerprint, layer)
	if err != nil {
		return nil, err
	}
	defer securityDomain.Zero(key)

	cipher, err := e.aead.CreateCipher(key, e.alg)
	if err != nil {
		return nil, err
	}

	return cipher.Decrypt(payload[nonceSize:], payload[:nonceSize], aad)
}

// buildHeader assembles magic|version|fingerprint|issuedAt.
func (e *Engine) buildHeader(fp [securityDomain.FingerprintSize]byte) []byte {
	header := make([]byte, 0, headerSize)
	header = append(header, envelopeMagic...)
	header = append(header, envelopeVersion)
	header = append(header, fp[:]...)
	header = binary.BigEndian.AppendUint64(header, uint64(time.Now().UnixNano()))
	return header
}

// triggerSecurityResponse logs a security incident and returns the taxonomy
// error for the honeytrap path. The caller-visible error never discloses
// which check tripped; the specific cause lives only in the event log.
func (e *Engine) triggerSecurityResponse(reqCtx securityDomain.RequestContext, cause error) error {
	level := e.detector.Level(reqCtx.SourceID)
	e.events.Append(securityDomain.NewSecurityEvent(
		securityDomain.EventSecurityIncident,
		securityDomain.StatusBlocked,
		reqCtx.SourceID,
		level,
		cause.Error(),
	))
	e.logger.Warn("security incident",
		slog.String("source", reqCtx.SourceID),
		slog.String("threat_level", level.String()),
	)
	return cause
}

// fail records an operation failure with its real cause. Only the generic
// taxonomy error ever reaches the caller.
func (e *Engine) fail(kind securityDomain.EventKind, reqCtx securityDomain.RequestContext, cause error) {
	e.events.Append(securityDomain.NewSecurityEvent(
		kind,
		securityDomain.StatusFailed,
		reqCtx.SourceID,
		e.detector.Level(reqCtx.SourceID),
		cause.Error(),
	))
	e.logger.Error("security core operation failed",
		slog.String("kind", string(kind)),
		slog.String("source", reqCtx.SourceID),
	)
}
