package http

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/SmartGenzAI1/securevibe/internal/errors"
	"github.com/SmartGenzAI1/securevibe/internal/httputil"
	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
	securityService "github.com/SmartGenzAI1/securevibe/internal/security/service"
)

// UserRateLimitMiddleware resolves the caller's principal from its bearer
// credential and applies the two-tier usage quota.
//
// Base and elevated tiers each have their own sliding-window counter; the
// rejection distinguishes "elevated-tier usage exceeded" from "base tier
// requires upgrade" so clients know whether retrying later or upgrading is
// the fix. Both rejections are 429 with a Retry-After hint.
//
// The resolved principal is stored in the request context for downstream
// middleware (request-signature verification reads its secret from there).
func UserRateLimitMiddleware(
	principals *securityDomain.PrincipalSet,
	baseLimiter *securityService.WindowLimiter,
	elevatedLimiter *securityService.WindowLimiter,
	events *securityService.EventLog,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := resolvePrincipal(c, principals)
		if err != nil {
			logger.Debug("principal resolution failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		limiter := baseLimiter
		quotaErr := securityDomain.ErrUpgradeRequired
		if principal.Tier == securityDomain.TierElevated {
			limiter = elevatedLimiter
			quotaErr = securityDomain.ErrUsageLimitExceeded
		}

		if ok, retryAfter := limiter.Allow(principal.ID); !ok {
			events.Append(securityDomain.NewSecurityEvent(
				securityDomain.EventUsageLimit,
				securityDomain.StatusBlocked,
				principal.ID,
				securityDomain.ThreatLow,
				fmt.Sprintf("%s tier quota exhausted", principal.Tier),
			))
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
			httputil.HandleErrorGin(c, quotaErr, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// resolvePrincipal extracts the bearer credential from the Authorization
// header (case-insensitive) and looks up the matching principal.
func resolvePrincipal(
	c *gin.Context,
	principals *securityDomain.PrincipalSet,
) (*securityDomain.Principal, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, apperrors.ErrUnauthorized
	}

	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return nil, apperrors.ErrUnauthorized
	}

	id := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if id == "" {
		return nil, apperrors.ErrUnauthorized
	}

	principal, ok := principals.Get(id)
	if !ok {
		return nil, securityDomain.ErrPrincipalNotFound
	}
	return principal, nil
}
