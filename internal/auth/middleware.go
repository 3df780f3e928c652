package auth

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/cod-delivery/internal/apperr"
	"github.com/MikeMC777/cod-delivery/internal/httpx"
)

const principalKey = "principal"

// Middleware requires a valid bearer token and stores the Principal on the
// gin context.
func Middleware(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			httpx.AbortWithError(c, apperr.Unauthorized())
			return
		}
		p, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			httpx.AbortWithError(c, apperr.Unauthorized())
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// Authorize checks the caller's role against the route pattern. It must run
// after Middleware.
func Authorize(a *Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := FromContext(c)
		if !ok {
			httpx.AbortWithError(c, apperr.Unauthorized())
			return
		}
		allowed, err := a.Allowed(p.Role, c.FullPath(), c.Request.Method)
		if err != nil {
			log.Printf("[auth] enforce error: %v", err)
			httpx.AbortWithError(c, apperr.Internal(err))
			return
		}
		if !allowed {
			httpx.AbortWithError(c, apperr.Forbidden())
			return
		}
		c.Next()
	}
}

// FromContext returns the principal set by Middleware.
func FromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// WithPrincipal is used by tests and internal callers to bypass token parsing.
func WithPrincipal(p Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, p)
		c.Next()
	}
}
