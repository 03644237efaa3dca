package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/crypto/hkdf"

	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
)

// serviceSignature is the fixed signature mixed into every master key
// derivation. It namespaces keys to this engine so material derived here is
// useless to any other HKDF consumer of the same service secret.
var serviceSignature = []byte("securevibe/security-engine/v1")

// keySize is the size of the master key and all derived layer keys.
const keySize = 32

// RotatingMasterKey owns the engine's master key and its rotation schedule.
//
// The key is 32 bytes derived via HKDF-SHA256 from combined entropy sources:
// a fresh random seed, the long-lived service secret (salt), the fixed
// service signature, and the derivation time. It regenerates when a full
// rotation interval has elapsed, checked inline at the top of every
// encrypt/decrypt call, or immediately on emergency rotation.
//
// Once rotated, ciphertext produced under the previous key can no longer be
// decrypted. This is a deliberate property of the design, not a bug: the
// outermost encryption layer is keyed by the current master key only.
//
// Thread safety: all key access goes through the mutex, so concurrent
// requests cannot race to regenerate the key; whichever request crosses the
// interval threshold pays the regeneration cost.
type RotatingMasterKey struct {
	mu        sync.Mutex
	key       []byte
	rotatedAt time.Time
	interval  time.Duration
	secret    []byte

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewRotatingMasterKey creates the master key owner and derives the initial key.
// The service secret must be at least 16 bytes of high-entropy material.
func NewRotatingMasterKey(serviceSecret []byte, interval time.Duration) (*RotatingMasterKey, error) {
	if len(serviceSecret) < 16 {
		return nil, securityDomain.ErrInvalidKeySize
	}

	m := &RotatingMasterKey{
		interval: interval,
		secret:   append([]byte(nil), serviceSecret...),
		now:      time.Now,
	}
	if err := m.regenerate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Snapshot performs the inline rotation check and returns a copy of the
// current key. The rotated flag reports whether this call triggered a
// scheduled rotation, so the caller can log it. The returned copy is owned by
// the caller and should be zeroed after use.
func (m *RotatingMasterKey) Snapshot() (key []byte, rotated bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.now().Sub(m.rotatedAt) >= m.interval {
		if err := m.regenerate(); err != nil {
			return nil, false, err
		}
		rotated = true
	}

	return append([]byte(nil), m.key...), rotated, nil
}

// EmergencyRotate forces immediate master key regeneration, discarding the
// current key regardless of schedule. Intended for incident response.
func (m *RotatingMasterKey) EmergencyRotate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regenerate()
}

// LastRotation returns when the key was last regenerated.
func (m *RotatingMasterKey) LastRotation() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rotatedAt
}

// Close zeroes all key material. The master key is unusable afterwards.
func (m *RotatingMasterKey) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	securityDomain.Zero(m.key)
	securityDomain.Zero(m.secret)
	m.key = nil
}

// regenerate derives a fresh master key and zeroes the previous one.
// Callers must hold m.mu.
func (m *RotatingMasterKey) regenerate() error {
	seed := make([]byte, keySize)
	if _, err := rand.Read(seed); err != nil {
		return fmt.Errorf("failed to generate master key seed: %w", err)
	}
	defer securityDomain.Zero(seed)

	now := m.now()
	info := make([]byte, 0, len(serviceSignature)+8)
	info = append(info, serviceSignature...)
	info = binary.BigEndian.AppendUint64(info, uint64(now.UnixNano()))

	key := make([]byte, keySize)
	r := hkdf.New(sha256.New, seed, m.secret, info)
	if _, err := io.ReadFull(r, key); err != nil {
		return fmt.Errorf("failed to derive master key: %w", err)
	}

	securityDomain.Zero(m.key)
	m.key = key
	m.rotatedAt = now
	return nil
}

// deriveLayerKey derives an ephemeral per-layer session key from the master
// key and the request context fingerprint. Session keys are derived fresh for
// every call and never cached or persisted.
func deriveLayerKey(masterKey []byte, fingerprint []byte, layer int) ([]byte, error) {
	info := fmt.Appendf(nil, "%s/layer-%d", serviceSignature, layer)

	key := make([]byte, keySize)
	r := hkdf.New(sha256.New, masterKey, fingerprint, info)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive layer %d key: %w", layer, err)
	}
	return key, nil
}
