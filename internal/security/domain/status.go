package domain

import (
	"time"
)

// Status is the read-only security snapshot exposed to operational tooling.
type Status struct {
	// ThreatLevel is the highest threat level among live attack-pattern records.
	ThreatLevel ThreatLevel `json:"threat_level"`
	// ActivePatternCount is the number of live attack-pattern records.
	ActivePatternCount int `json:"active_pattern_count"`
	// EventCount is the number of events currently held by the event log.
	EventCount int `json:"event_count"`
	// LastKeyRotation is when the master key was last regenerated.
	LastKeyRotation time.Time `json:"last_key_rotation"`
	// LayerCount is the number of encryption layers applied per operation.
	LayerCount int `json:"layer_count"`
	// Algorithm labels the AEAD construction in use.
	Algorithm Algorithm `json:"algorithm"`
}
