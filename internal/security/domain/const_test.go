package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreatLevel_String(t *testing.T) {
	assert.Equal(t, "LOW", ThreatLow.String())
	assert.Equal(t, "MEDIUM", ThreatMedium.String())
	assert.Equal(t, "HIGH", ThreatHigh.String())
	assert.Equal(t, "CRITICAL", ThreatCritical.String())
}

func TestLevelForCount(t *testing.T) {
	tests := []struct {
		count int
		want  ThreatLevel
	}{
		{0, ThreatLow},
		{1, ThreatLow},
		{2, ThreatLow},
		{3, ThreatMedium},
		{5, ThreatMedium},
		{6, ThreatHigh},
		{9, ThreatHigh},
		{10, ThreatCritical},
		{100, ThreatCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForCount(tt.count), "count=%d", tt.count)
	}
}

func TestThreatLevel_Ordering(t *testing.T) {
	assert.Less(t, ThreatLow, ThreatMedium)
	assert.Less(t, ThreatMedium, ThreatHigh)
	assert.Less(t, ThreatHigh, ThreatCritical)
}
