package service

import (
	"sync"

	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
)

// DefaultEventLogCapacity bounds the security event log.
const DefaultEventLogCapacity = 1000

// EventLog is the bounded, append-only security event log shared by the
// encryption engine and the threat-detection middleware. It is a ring buffer:
// once capacity is reached, the oldest entries are dropped. Events are never
// persisted to disk; the log is lost on restart by design.
type EventLog struct {
	mu    sync.Mutex
	buf   []securityDomain.SecurityEvent
	next  int
	count int
}

// NewEventLog creates an event log with the given capacity.
// A capacity <= 0 falls back to DefaultEventLogCapacity.
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultEventLogCapacity
	}
	return &EventLog{buf: make([]securityDomain.SecurityEvent, capacity)}
}

// Append adds an event, dropping the oldest entry when the log is full.
func (l *EventLog) Append(ev securityDomain.SecurityEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf[l.next] = ev
	l.next = (l.next + 1) % len(l.buf)
	if l.count < len(l.buf) {
		l.count++
	}
}

// Len returns the number of events currently held.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Snapshot returns the retained events ordered oldest to newest.
func (l *EventLog) Snapshot() []securityDomain.SecurityEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]securityDomain.SecurityEvent, 0, l.count)
	start := l.next - l.count
	if start < 0 {
		start += len(l.buf)
	}
	for i := 0; i < l.count; i++ {
		out = append(out, l.buf[(start+i)%len(l.buf)])
	}
	return out
}
