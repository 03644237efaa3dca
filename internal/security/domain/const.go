package domain

// Algorithm represents the AEAD algorithm used for the encryption layers.
type Algorithm string

// Supported AEAD algorithms.
const (
	AESGCM   Algorithm = "aes-gcm"
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// EventKind classifies entries in the security event log.
type EventKind string

// Event kinds written by the encryption engine and the threat-detection
// middleware.
const (
	EventKeyRotation          EventKind = "KEY_ROTATION"
	EventEmergencyKeyRotation EventKind = "EMERGENCY_KEY_ROTATION"
	EventEncryption           EventKind = "ENCRYPTION"
	EventDecryption           EventKind = "DECRYPTION"
	EventSecurityIncident     EventKind = "SECURITY_INCIDENT"
	EventRateLimit            EventKind = "RATE_LIMIT"
	EventUsageLimit           EventKind = "USAGE_LIMIT"
	EventSignatureCheck       EventKind = "SIGNATURE_VERIFICATION"
	EventSlowRequest          EventKind = "SLOW_REQUEST"
)

// EventStatus records the outcome of the operation that produced an event.
type EventStatus string

// Event statuses.
const (
	StatusSuccess EventStatus = "SUCCESS"
	StatusFailed  EventStatus = "FAILED"
	StatusBlocked EventStatus = "BLOCKED"
)

// ThreatLevel is the coarse threat classification derived from the cumulative
// suspicious-event count recorded for a request source. Levels only escalate
// while a record is alive; decay happens through record expiry, never through
// in-place downgrades.
type ThreatLevel int

// Threat levels, ordered from least to most severe.
const (
	ThreatLow ThreatLevel = iota
	ThreatMedium
	ThreatHigh
	ThreatCritical
)

// Suspicious-event counts at which the threat level escalates.
const (
	mediumThreshold   = 3
	highThreshold     = 6
	criticalThreshold = 10
)

// String returns the canonical upper-case name of the threat level.
func (t ThreatLevel) String() string {
	switch t {
	case ThreatCritical:
		return "CRITICAL"
	case ThreatHigh:
		return "HIGH"
	case ThreatMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// LevelForCount maps a cumulative suspicious-event count to a threat level.
func LevelForCount(count int) ThreatLevel {
	switch {
	case count >= criticalThreshold:
		return ThreatCritical
	case count >= highThreshold:
		return ThreatHigh
	case count >= mediumThreshold:
		return ThreatMedium
	default:
		return ThreatLow
	}
}

// Tier identifies a principal's usage quota tier.
type Tier string

// Usage quota tiers.
const (
	TierBase     Tier = "base"
	TierElevated Tier = "elevated"
)
