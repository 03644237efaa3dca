package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmartGenzAI1/securevibe/internal/httputil"
	"github.com/SmartGenzAI1/securevibe/internal/metrics"
	"github.com/SmartGenzAI1/securevibe/internal/security/http/dto"
	securityService "github.com/SmartGenzAI1/securevibe/internal/security/service"
)

// SecurityHandler exposes the operational endpoints: the security status
// snapshot, the event log, and emergency key rotation.
type SecurityHandler struct {
	engine  Engine
	events  *securityService.EventLog
	metrics metrics.SecurityMetrics
	logger  *slog.Logger
}

// NewSecurityHandler creates a new security handler.
func NewSecurityHandler(
	engine Engine,
	events *securityService.EventLog,
	securityMetrics metrics.SecurityMetrics,
	logger *slog.Logger,
) *SecurityHandler {
	return &SecurityHandler{
		engine:  engine,
		events:  events,
		metrics: securityMetrics,
		logger:  logger,
	}
}

// StatusHandler returns the read-only security snapshot.
// GET /v1/security/status
func (h *SecurityHandler) StatusHandler(c *gin.Context) {
	status := h.engine.Status()
	h.metrics.RecordThreatLevel(c.Request.Context(), int64(status.ThreatLevel))
	c.JSON(http.StatusOK, status)
}

// EventsHandler returns the retained security events, oldest first. Event
// detail stays server-side; only the external shape is returned.
// GET /v1/security/events
func (h *SecurityHandler) EventsHandler(c *gin.Context) {
	snapshot := h.events.Snapshot()

	events := make([]dto.SecurityEventResponse, 0, len(snapshot))
	for _, ev := range snapshot {
		events = append(events, dto.MapSecurityEventToResponse(ev))
	}

	c.JSON(http.StatusOK, dto.ListSecurityEventsResponse{Events: events})
}

// RotateHandler forces immediate master key regeneration. Ciphertext
// produced under the previous key becomes undecryptable; that is the point.
// POST /v1/security/rotate
// Returns 204 No Content.
func (h *SecurityHandler) RotateHandler(c *gin.Context) {
	if err := h.engine.EmergencyRotate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("emergency rotation requested", slog.String("source", c.ClientIP()))
	c.Status(http.StatusNoContent)
}
