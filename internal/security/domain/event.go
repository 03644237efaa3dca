package domain

import (
	"time"

	"github.com/google/uuid"
)

// SecurityEvent is a structured record in the security event log. Events are
// written by both the encryption engine and the threat-detection middleware
// and read by operational tooling. The Detail field carries the real cause of
// a failure and stays server-side; it is never part of a client response.
type SecurityEvent struct {
	ID          uuid.UUID
	Timestamp   time.Time
	Kind        EventKind
	Status      EventStatus
	Source      string
	ThreatLevel ThreatLevel
	Detail      string
}

// NewSecurityEvent builds an event with a fresh ID and the current time.
func NewSecurityEvent(
	kind EventKind,
	status EventStatus,
	source string,
	level ThreatLevel,
	detail string,
) SecurityEvent {
	return SecurityEvent{
		ID:          uuid.Must(uuid.NewV7()),
		Timestamp:   time.Now().UTC(),
		Kind:        kind,
		Status:      status,
		Source:      source,
		ThreatLevel: level,
		Detail:      detail,
	}
}
