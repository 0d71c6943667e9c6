package rememberme

import (
	"net/http"
	"time"

	"github.com/tech-arch1tect/persistauth/config"
)

// CookieOptions is the single attribute set shared by bind and clear. Browsers
// only remove a cookie when the clearing attributes match the setting ones, so
// the two paths must never drift apart.
type CookieOptions struct {
	Name     string
	Path     string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

func CookieOptionsFromConfig(cfg *config.RememberMeConfig) CookieOptions {
	return CookieOptions{
		Name:     cfg.CookieName,
		Path:     cfg.CookiePath,
		Secure:   cfg.CookieSecure,
		SameSite: mapSameSite(cfg.CookieSameSite),
		MaxAge:   cfg.Expiry,
	}
}

func (o CookieOptions) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Path:     o.Path,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	}
}

// BindCookie writes the raw token to the response. No server-side state moves.
func (s *Service) BindCookie(w http.ResponseWriter, issued *IssuedToken) {
	cookie := s.cookies.cookie()
	cookie.Value = issued.Raw
	cookie.Expires = issued.Record.ExpiresAt
	cookie.MaxAge = int(s.cookies.MaxAge.Seconds())
	http.SetCookie(w, cookie)
}

// ClearCookie expires the cookie immediately, using the exact attribute set
// BindCookie used.
func (s *Service) ClearCookie(w http.ResponseWriter) {
	cookie := s.cookies.cookie()
	cookie.Value = ""
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

// CookieName exposes the configured name for middleware extraction.
func (s *Service) CookieName() string {
	return s.cookies.Name
}

func mapSameSite(setting string) http.SameSite {
	switch setting {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
