package authbridge

import (
	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/persistauth/services/logging"
	"github.com/tech-arch1tect/persistauth/services/rememberme"
	"github.com/tech-arch1tect/persistauth/session"
	"go.uber.org/zap"
)

// identityKey is a slot distinct from the session identity: a remembered user
// never overwrites an already-authenticated session.
const identityKey = "remember_me_identity"

type Config struct {
	Service *rememberme.Service
	Logger  *logging.Service
}

// Middleware resolves a remember-me cookie to an identity before the primary
// session check runs. It always calls the downstream handler: verification
// failures leave the request anonymous, they never terminate it.
func Middleware(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Service == nil || !cfg.Service.Enabled() {
				return next(c)
			}

			if session.IsAuthenticated(c) {
				return next(c)
			}

			cookie, err := c.Cookie(cfg.Service.CookieName())
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			identity := cfg.Service.Verify(cookie.Value)
			if identity == nil {
				if cfg.Logger != nil {
					cfg.Logger.Debug("remember me cookie did not verify, clearing")
				}
				cfg.Service.ClearCookie(c.Response())
				return next(c)
			}

			c.Set(identityKey, identity)

			if cfg.Logger != nil {
				cfg.Logger.Debug("remember me identity attached",
					zap.Uint("user_id", identity.UserID))
			}

			return next(c)
		}
	}
}

// GetIdentity returns the remembered identity attached by Middleware, or nil.
func GetIdentity(c echo.Context) *rememberme.Identity {
	if identity, ok := c.Get(identityKey).(*rememberme.Identity); ok {
		return identity
	}
	return nil
}
