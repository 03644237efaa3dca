package http

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SmartGenzAI1/securevibe/internal/httputil"
	"github.com/SmartGenzAI1/securevibe/internal/metrics"
	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
	"github.com/SmartGenzAI1/securevibe/internal/security/http/dto"
	customValidation "github.com/SmartGenzAI1/securevibe/internal/validation"
)

// Engine is the encryption engine surface the handlers depend on.
type Engine interface {
	Encrypt(plaintext string, reqCtx securityDomain.RequestContext) (string, error)
	Decrypt(ciphertext string, reqCtx securityDomain.RequestContext) (string, error)
	EmergencyRotate() error
	Status() securityDomain.Status
}

// CryptoHandler handles the transit encrypt/decrypt endpoints.
type CryptoHandler struct {
	engine  Engine
	metrics metrics.SecurityMetrics
	logger  *slog.Logger
}

// NewCryptoHandler creates a new crypto handler.
func NewCryptoHandler(
	engine Engine,
	securityMetrics metrics.SecurityMetrics,
	logger *slog.Logger,
) *CryptoHandler {
	return &CryptoHandler{
		engine:  engine,
		metrics: securityMetrics,
		logger:  logger,
	}
}

// EncryptHandler encrypts base64-encoded plaintext bound to the request context.
// POST /v1/transit/encrypt
// Returns 200 OK with the opaque ciphertext envelope.
func (h *CryptoHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := base64.StdEncoding.DecodeString(req.Plaintext)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	reqCtx := RequestContextFromGin(c)

	start := time.Now()
	ciphertext, err := h.engine.Encrypt(string(plaintext), reqCtx)
	h.record(c.Request.Context(), "encrypt", start, err)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptResponse{Ciphertext: ciphertext})
}

// DecryptHandler decrypts a ciphertext envelope under the same context
// convention used at encrypt time.
// POST /v1/transit/decrypt
// Returns 200 OK with the base64-encoded plaintext.
func (h *CryptoHandler) DecryptHandler(c *gin.Context) {
	var req dto.DecryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	reqCtx := RequestContextFromGin(c)

	start := time.Now()
	plaintext, err := h.engine.Decrypt(req.Ciphertext, reqCtx)
	h.record(c.Request.Context(), "decrypt", start, err)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptResponse{
		Plaintext: base64.StdEncoding.EncodeToString([]byte(plaintext)),
	})
}

// record emits operation metrics for an engine call.
func (h *CryptoHandler) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	h.metrics.RecordOperation(ctx, operation, status)
	h.metrics.RecordDuration(ctx, operation, time.Since(start), status)
}
