package csrf

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/persistauth/config"
	"github.com/tech-arch1tect/persistauth/csrf"
	"github.com/tech-arch1tect/persistauth/session"
	"github.com/tech-arch1tect/persistauth/testutils"
)

func newTestApp(t *testing.T, cfg *config.CSRFConfig) *echo.Echo {
	t.Helper()

	appCfg := testutils.GetTestConfig()
	manager, err := session.ProvideSessionManager(appCfg, nil, nil)
	require.NoError(t, err)

	e := echo.New()
	e.Use(session.Middleware(manager))
	e.Use(Middleware(cfg, csrf.NewGuard(cfg)))

	e.GET("/form", func(c echo.Context) error {
		return c.String(http.StatusOK, GetToken(c))
	})
	e.POST("/submit", func(c echo.Context) error {
		return c.String(http.StatusOK, "accepted")
	})

	return e
}

func fetchToken(t *testing.T, e *echo.Echo) (token string, cookies []*http.Cookie) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Body.String())
	return rec.Body.String(), rec.Result().Cookies()
}

func TestMiddleware_Disabled(t *testing.T) {
	cfg := &config.CSRFConfig{Enabled: false}

	e := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_IssuesSessionBoundToken(t *testing.T) {
	cfg := &testutils.GetTestConfig().CSRF
	e := newTestApp(t, cfg)

	token, cookies := fetchToken(t, e)

	// Same session sees the same token.
	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, token, rec.Body.String())

	// A fresh session gets a different token.
	other, _ := fetchToken(t, e)
	assert.NotEqual(t, token, other)
}

func TestMiddleware_HeaderVerification(t *testing.T) {
	cfg := &testutils.GetTestConfig().CSRF
	e := newTestApp(t, cfg)

	token, cookies := fetchToken(t, e)

	t.Run("valid header token accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		req.Header.Set("X-CSRF-Token", token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		req.Header.Set("X-CSRF-Token", "forged-value")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestMiddleware_FormVerification(t *testing.T) {
	cfg := &testutils.GetTestConfig().CSRF
	cfg.TokenLookup = "form:_csrf"
	e := newTestApp(t, cfg)

	token, cookies := fetchToken(t, e)

	form := url.Values{"_csrf": {token}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_SafeMethodsSkipVerification(t *testing.T) {
	cfg := &testutils.GetTestConfig().CSRF
	e := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
