package domain

import (
	"time"
)

// SuspiciousEvent records a single detection hit against a request source.
type SuspiciousEvent struct {
	// Reason names the check that tripped (e.g. "scanner user agent",
	// "injection payload"). Never disclosed to callers.
	Reason string
	// ObservedAt is when the hit was recorded.
	ObservedAt time.Time
}

// AttackPatternRecord tracks the request history of a single source
// identifier. Records are created lazily on first observation; the request
// count is monotonic for the record's lifetime and the derived threat level
// never decreases while the record is alive. Quiet sources decay by record
// expiry in the bounded store, not by in-place resets.
type AttackPatternRecord struct {
	// SourceID is the identifier the record is keyed by.
	SourceID string
	// RequestCount is the total number of requests observed.
	RequestCount int
	// FirstSeen is when the record was created.
	FirstSeen time.Time
	// SuspiciousEvents accumulates detection hits.
	SuspiciousEvents []SuspiciousEvent
}

// Level derives the threat level from the cumulative suspicious-event count.
func (r *AttackPatternRecord) Level() ThreatLevel {
	return LevelForCount(len(r.SuspiciousEvents))
}
