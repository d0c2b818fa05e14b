package accounts

import (
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// RouteAuthenticator adapts the Lifecycle to HTTP: bearer-token middleware,
// session cookies, and go-errors to status-code mapping.
type RouteAuthenticator struct {
	lifecycle      Lifecycler
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
	ErrorHandler   func(c router.Context, err error) error
}

// NewHTTPAuthenticator returns a RouteAuthenticator wired to the lifecycle.
func NewHTTPAuthenticator(lifecycle Lifecycler, cfg Config) (*RouteAuthenticator, error) {
	cookieDuration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	a := &RouteAuthenticator{
		cfg:            cfg,
		lifecycle:      lifecycle,
		Logger:         defLogger{},
		cookieDuration: cookieDuration,
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

// ProtectedRoute validates the bearer token and stores the decoded session
// in locals under the configured context key.
func (a *RouteAuthenticator) ProtectedRoute() router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw, err := a.extractRawToken(ctx)
			if err != nil {
				return a.ErrorHandler(ctx, err)
			}

			session, err := a.lifecycle.SessionFromToken(raw)
			if err != nil {
				return a.ErrorHandler(ctx, err)
			}

			ctx.Locals(a.cfg.GetContextKey(), session)

			return hf(ctx)
		}
	}
}

// CurrentSession retrieves the session stored by ProtectedRoute.
func CurrentSession(ctx router.Context, key string) (Session, error) {
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, ErrTokenMalformed
	}

	session, ok := raw.(Session)
	if !ok {
		return nil, ErrUnableToMapClaims
	}

	return session, nil
}

// extractRawToken pulls the token from the Authorization header, falling
// back to the session cookie for browser flows.
func (a *RouteAuthenticator) extractRawToken(ctx router.Context) (string, error) {
	scheme := a.cfg.GetAuthScheme()
	if scheme == "" {
		scheme = "Bearer"
	}

	header := ctx.GetString(router.HeaderAuthorization, "")
	if header != "" {
		l := len(scheme)
		if len(header) > l+1 && strings.EqualFold(header[:l], scheme) {
			return strings.TrimSpace(header[l:]), nil
		}
		return "", ErrTokenMalformed
	}

	if cookie := ctx.Cookies(a.cfg.GetContextKey()); cookie != "" {
		return cookie, nil
	}

	return "", ErrTokenMalformed
}

// SetTokenCookie stores the session token for browser clients.
func (a *RouteAuthenticator) SetTokenCookie(c router.Context, val string) {
	c.Cookie(&router.Cookie{
		Name:     a.cfg.GetContextKey(),
		Value:    val,
		Expires:  time.Now().Add(a.cookieDuration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// ClearTokenCookie expires the session cookie.
func (a *RouteAuthenticator) ClearTokenCookie(c router.Context) {
	c.Cookie(&router.Cookie{
		Name:     a.cfg.GetContextKey(),
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"HTTP error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"text_code", richErr.TextCode,
	)

	status := richErr.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return c.JSON(status, map[string]any{
		"error": richErr.Message,
		"code":  richErr.TextCode,
	})
}
