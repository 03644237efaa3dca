// Package http provides the threat-detection middleware chain and the HTTP
// handlers that expose the security core.
package http

import (
	"bytes"
	"context"
	"io"

	"github.com/gin-gonic/gin"

	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const principalContextKey contextKey = "principal"

// maxSniffedBody caps how much of a request body is read for attack scoring.
const maxSniffedBody = 64 * 1024

// WithPrincipal stores the authenticated principal in the context.
func WithPrincipal(ctx context.Context, p *securityDomain.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) (*securityDomain.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*securityDomain.Principal)
	return p, ok
}

// RequestContextFromGin builds the security RequestContext from the incoming
// request. The body is sniffed up to maxSniffedBody and restored so route
// handlers can still read it.
func RequestContextFromGin(c *gin.Context) securityDomain.RequestContext {
	return securityDomain.RequestContext{
		SourceID:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Path:      c.Request.URL.RequestURI(),
		Body:      sniffBody(c),
	}
}

// sniffBody reads up to maxSniffedBody bytes of the request body and
// replaces it with a reader over the full captured content.
func sniffBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSniffedBody))
	if err != nil {
		return ""
	}

	rest := c.Request.Body
	c.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(body), rest), rest}

	return string(body)
}

// readFullBody buffers the entire request body and replaces it with a reader
// over the captured content. The sniff cap does not apply: signature
// verification must cover every byte the handler will see.
func readFullBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	return string(body)
}
