package service

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
)

// scannerAgents are User-Agent substrings of known scanning tools.
var scannerAgents = []string{
	"sqlmap",
	"nikto",
	"nmap",
	"masscan",
	"dirbuster",
	"gobuster",
	"wpscan",
	"hydra",
	"zgrab",
	"acunetix",
}

// injectionSignature pairs a payload substring with the reason recorded when
// it matches. The list covers path traversal, XSS, SQL injection, code
// injection, and base64 smuggling markers.
type injectionSignature struct {
	pattern string
	reason  string
}

var injectionSignatures = []injectionSignature{
	{"<script", "xss payload"},
	{"javascript:", "xss payload"},
	{"onerror=", "xss payload"},
	{"union select", "sql injection"},
	{"' or 1=1", "sql injection"},
	{"drop table", "sql injection"},
	{"eval(", "code injection"},
	{"exec(", "code injection"},
	{"__import__", "code injection"},
	{"../", "path traversal"},
	{"%2e%2e%2f", "path traversal"},
	{";base64,", "base64 smuggling"},
	{"atob(", "base64 smuggling"},
}

// DetectorConfig holds the attack-pattern detection thresholds.
type DetectorConfig struct {
	// MaxRequests is the absolute per-identifier request ceiling.
	MaxRequests int
	// BurstPerSecond is the sub-second burst threshold per identifier.
	BurstPerSecond int
	// MaxRecords bounds the attack-pattern table.
	MaxRecords int
	// RecordTTL is how long a quiet identifier's record survives. Expiry is
	// the only way a threat level decays.
	RecordTTL time.Duration
}

// attackRecord pairs the domain record with the per-identifier burst limiter.
type attackRecord struct {
	pattern securityDomain.AttackPatternRecord
	burst   *rate.Limiter
}

// Detector maintains the per-identifier attack-pattern table shared by the
// encryption engine and the threat-detection middleware.
//
// A request is flagged when any of the following holds: the user agent
// matches a known scanner signature, the payload contains injection-like
// substrings, the cumulative request count exceeds the absolute ceiling, or
// the sub-second burst threshold is exceeded. Every hit appends to the
// record's suspicious events, so the derived threat level is non-decreasing
// for the record's lifetime.
//
// Records live in an expirable LRU: memory stays bounded and a source that
// goes quiet eventually drops back to LOW by record expiry.
type Detector struct {
	mu      sync.Mutex
	records *expirable.LRU[string, *attackRecord]
	cfg     DetectorConfig
	logger  *slog.Logger

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewDetector creates a detector with the given thresholds.
func NewDetector(cfg DetectorConfig, logger *slog.Logger) *Detector {
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = 10000
	}
	if cfg.RecordTTL <= 0 {
		cfg.RecordTTL = time.Hour
	}
	return &Detector{
		records: expirable.NewLRU[string, *attackRecord](cfg.MaxRecords, nil, cfg.RecordTTL),
		cfg:     cfg,
		logger:  logger,
	}
}

// Inspect records the request against its source identifier and reports
// whether it matched an attack pattern, along with the reasons. Side effects:
// the record's request count increments and every hit is appended to its
// suspicious events, escalating the threat level.
func (d *Detector) Inspect(reqCtx securityDomain.RequestContext) (flagged bool, reasons []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock()
	rec, ok := d.records.Get(reqCtx.SourceID)
	if !ok {
		rec = &attackRecord{
			pattern: securityDomain.AttackPatternRecord{
				SourceID:  reqCtx.SourceID,
				FirstSeen: now,
			},
			burst: rate.NewLimiter(rate.Limit(d.cfg.BurstPerSecond), d.cfg.BurstPerSecond),
		}
		d.records.Add(reqCtx.SourceID, rec)
	}
	rec.pattern.RequestCount++

	ua := strings.ToLower(reqCtx.UserAgent)
	for _, agent := range scannerAgents {
		if strings.Contains(ua, agent) {
			reasons = append(reasons, "scanner user agent: "+agent)
			break
		}
	}

	payload := strings.ToLower(reqCtx.Path + " " + reqCtx.Body)
	for _, sig := range injectionSignatures {
		if strings.Contains(payload, sig.pattern) {
			reasons = append(reasons, sig.reason)
		}
	}

	if rec.pattern.RequestCount > d.cfg.MaxRequests {
		reasons = append(reasons, "request ceiling exceeded")
	}

	if d.cfg.BurstPerSecond > 0 && !rec.burst.AllowN(now, 1) {
		reasons = append(reasons, "sub-second burst")
	}

	for _, reason := range reasons {
		rec.pattern.SuspiciousEvents = append(rec.pattern.SuspiciousEvents,
			securityDomain.SuspiciousEvent{Reason: reason, ObservedAt: now})
	}

	if len(reasons) > 0 {
		d.logger.Warn("attack pattern detected",
			slog.String("source", reqCtx.SourceID),
			slog.Any("reasons", reasons),
			slog.String("threat_level", rec.pattern.Level().String()),
		)
	}

	return len(reasons) > 0, reasons
}

// Level returns the current threat level for an identifier, LOW when no
// record exists.
func (d *Detector) Level(sourceID string) securityDomain.ThreatLevel {
	d.mu.Lock()
	defer d.mu.Unlock()

	if rec, ok := d.records.Peek(sourceID); ok {
		return rec.pattern.Level()
	}
	return securityDomain.ThreatLow
}

// ActiveCount returns the number of live attack-pattern records.
func (d *Detector) ActiveCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.records.Len()
}

// MaxLevel returns the highest threat level among live records.
func (d *Detector) MaxLevel() securityDomain.ThreatLevel {
	d.mu.Lock()
	defer d.mu.Unlock()

	max := securityDomain.ThreatLow
	for _, key := range d.records.Keys() {
		if rec, ok := d.records.Peek(key); ok {
			if level := rec.pattern.Level(); level > max {
				max = level
			}
		}
	}
	return max
}

// clock returns the current time via the injected clock when set.
func (d *Detector) clock() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now()
}
