package csrf

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/persistauth/config"
	"github.com/tech-arch1tect/persistauth/csrf"
	"github.com/tech-arch1tect/persistauth/session"
)

// sessionTokenKey is where the expected token lives in the caller's session.
const sessionTokenKey = "_csrf_token"

// Middleware binds a csrf.Guard to the session: it lazily issues a
// session-bound token, exposes it via the configured context key, and rejects
// unsafe methods whose presented token fails constant-time verification.
func Middleware(cfg *config.CSRFConfig, guard *csrf.Guard) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	extract := extractor(cfg.TokenLookup)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			expected := session.GetString(c, sessionTokenKey)
			if expected == "" {
				token, err := guard.Issue()
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue CSRF token")
				}
				session.Set(c, sessionTokenKey, token)
				expected = token
			}

			c.Set(cfg.ContextKey, expected)

			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				return next(c)
			}

			if !guard.Verify(extract(c), expected) {
				return echo.NewHTTPError(http.StatusForbidden, "invalid CSRF token")
			}

			return next(c)
		}
	}
}

func WithConfig(cfg *config.CSRFConfig, guard *csrf.Guard) echo.MiddlewareFunc {
	return Middleware(cfg, guard)
}

func GetToken(c echo.Context) string {
	if token, ok := c.Get("csrf").(string); ok {
		return token
	}
	return ""
}

// extractor parses a "header:Name" or "form:field" lookup string, defaulting to
// the X-CSRF-Token header.
func extractor(lookup string) func(echo.Context) string {
	source, name, found := strings.Cut(lookup, ":")
	if !found {
		source, name = "header", "X-CSRF-Token"
	}

	switch source {
	case "form":
		return func(c echo.Context) string {
			return c.FormValue(name)
		}
	default:
		return func(c echo.Context) string {
			return c.Request().Header.Get(name)
		}
	}
}
