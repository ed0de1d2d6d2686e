package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazario/console/core"
	"github.com/bazario/console/service"
)

const identityKey = "identity"

// GuardConfig configures the route guard.
type GuardConfig struct {
	// LoginPath is the authentication entry point unauthenticated requests
	// are redirected to. Defaults to "/auth".
	LoginPath string

	// RequireRole, when non-empty, additionally requires the decoded
	// identity to carry this role. This gate is advisory (the identity
	// comes from unverified claims); the backend enforces authorization on
	// every request regardless.
	RequireRole string
}

// Guard gates protected routes on the session state. While the session is
// still initializing it answers with a neutral placeholder; once settled,
// an expired or anonymous session is redirected to the login path and the
// protected handler never runs.
func Guard(session *service.SessionService, cfg GuardConfig) gin.HandlerFunc {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/auth"
	}

	return func(c *gin.Context) {
		if session.Loading() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "initializing"})
			return
		}

		if !session.CheckExpiration(c.Request.Context()) {
			redirectToLogin(c, loginPath)
			return
		}

		user, ok := session.Current()
		if !ok {
			redirectToLogin(c, loginPath)
			return
		}

		if cfg.RequireRole != "" && user.Role != cfg.RequireRole {
			redirectToLogin(c, loginPath)
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context, loginPath string) {
	c.Redirect(http.StatusFound, loginPath)
	c.Abort()
}

// IdentityFrom returns the identity the guard stored on the request.
func IdentityFrom(c *gin.Context) (core.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return core.Identity{}, false
	}
	user, ok := value.(core.Identity)
	return user, ok
}
