package dto

import (
	"time"

	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
)

// EncryptResponse carries the opaque ciphertext envelope.
type EncryptResponse struct {
	Ciphertext string `json:"ciphertext"`
}

// DecryptResponse carries the recovered base64-encoded plaintext.
type DecryptResponse struct {
	Plaintext string `json:"plaintext"`
}

// SecurityEventResponse is the external shape of a security event. The
// server-side detail field is intentionally absent.
type SecurityEventResponse struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Source      string    `json:"source"`
	ThreatLevel string    `json:"threat_level"`
}

// MapSecurityEventToResponse converts a domain event to its external shape.
func MapSecurityEventToResponse(ev securityDomain.SecurityEvent) SecurityEventResponse {
	return SecurityEventResponse{
		ID:          ev.ID.String(),
		Timestamp:   ev.Timestamp,
		Kind:        string(ev.Kind),
		Status:      string(ev.Status),
		Source:      ev.Source,
		ThreatLevel: ev.ThreatLevel.String(),
	}
}

// ListSecurityEventsResponse wraps an event log snapshot.
type ListSecurityEventsResponse struct {
	Events []SecurityEventResponse `json:"events"`
}
