package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestContext_Fingerprint(t *testing.T) {
	t.Run("deterministic for the same source", func(t *testing.T) {
		a := RequestContext{SourceID: "192.0.2.1", UserAgent: "curl/8.0"}
		b := RequestContext{SourceID: "192.0.2.1", UserAgent: "Mozilla/5.0"}

		// Only the source identifier feeds the fingerprint; volatile
		// attributes must not change it.
		assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	})

	t.Run("differs across sources", func(t *testing.T) {
		a := RequestContext{SourceID: "192.0.2.1"}
		b := RequestContext{SourceID: "192.0.2.2"}

		assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	})

	t.Run("empty source still produces a fingerprint", func(t *testing.T) {
		var zero [FingerprintSize]byte
		c := RequestContext{}
		assert.NotEqual(t, zero, c.Fingerprint())
	})
}

func TestAttackPatternRecord_Level(t *testing.T) {
	rec := &AttackPatternRecord{SourceID: "192.0.2.1"}
	assert.Equal(t, ThreatLow, rec.Level())

	for i := 0; i < 3; i++ {
		rec.SuspiciousEvents = append(rec.SuspiciousEvents, SuspiciousEvent{Reason: "sql injection"})
	}
	assert.Equal(t, ThreatMedium, rec.Level())

	for i := 0; i < 7; i++ {
		rec.SuspiciousEvents = append(rec.SuspiciousEvents, SuspiciousEvent{Reason: "sub-second burst"})
	}
	assert.Equal(t, ThreatCritical, rec.Level())
}

func TestNewSecurityEvent(t *testing.T) {
	ev := NewSecurityEvent(EventEncryption, StatusSuccess, "192.0.2.1", ThreatLow, "detail")

	assert.NotEqual(t, ev.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.False(t, ev.Timestamp.IsZero())
	assert.Equal(t, EventEncryption, ev.Kind)
	assert.Equal(t, StatusSuccess, ev.Status)
	assert.Equal(t, "192.0.2.1", ev.Source)
	assert.Equal(t, "detail", ev.Detail)

	other := NewSecurityEvent(EventEncryption, StatusSuccess, "192.0.2.1", ThreatLow, "detail")
	assert.NotEqual(t, ev.ID, other.ID)
}
