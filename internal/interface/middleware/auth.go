package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-event-sharing/internal/application"
	"github.com/oksasatya/go-event-sharing/pkg/helpers"
)

const CtxIdentityKey = "identity"

// IdentityResolver turns a session cookie value into the request identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) *application.Profile
}

// Session resolves the session cookie on every request and stores the
// identity (or nothing) in the gin context.
func Session(resolver IdentityResolver, cookies *helpers.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookies.Session(c)
		if token != "" {
			if p := resolver.Resolve(c.Request.Context(), token); p != nil {
				c.Set(CtxIdentityKey, p)
				c.Set("userID", p.ID)
			} else {
				cookies.Clear(c)
			}
		}
		c.Next()
	}
}

// CurrentIdentity returns the resolved identity or nil for anonymous requests.
func CurrentIdentity(c *gin.Context) *application.Profile {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil
	}
	p, _ := v.(*application.Profile)
	return p
}

// RequireAuth redirects anonymous requests to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
