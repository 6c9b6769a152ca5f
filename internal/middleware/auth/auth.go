package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"blogcore/internal/core"
	"blogcore/internal/service/identity"
	"blogcore/internal/service/token"
)

const subjectKey = "subject"

// Middleware resolves the caller's access token into a Subject before the
// handlers run. The token itself only proves identity; role and profile come
// from the identity resolver so a stale role claim cannot outlive a
// promotion.
type Middleware struct {
	Tokens   *token.TokenService
	Identity *identity.Resolver
}

// TokenFromRequest extracts the raw access token, preferring the cookie and
// falling back to the Authorization header.
func TokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	return strings.TrimPrefix(h, "Bearer ")
}

func (m *Middleware) resolve(c echo.Context) (core.Subject, error) {
	raw := TokenFromRequest(c)
	if raw == "" {
		return core.Subject{}, core.ErrUnauthorized
	}
	subjectID, _, err := m.Tokens.VerifyAccess(raw)
	if err != nil {
		return core.Subject{}, core.ErrUnauthorized
	}
	subject, err := m.Identity.Resolve(c.Request().Context(), subjectID)
	if err != nil {
		return core.Subject{}, core.ErrUnauthorized
	}
	return subject, nil
}

// RequireLogin rejects requests without a valid access token.
func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		subject, err := m.resolve(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing access token")
		}
		c.Set(subjectKey, subject)
		return next(c)
	}
}

// AdminOnly additionally requires the admin role.
func (m *Middleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireLogin(func(c echo.Context) error {
		if !SubjectFrom(c).IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	})
}

// Optional resolves the subject when a valid token is present and continues
// anonymously otherwise. Public read paths use it so owners and admins see
// their unpublished content in listings.
func (m *Middleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if subject, err := m.resolve(c); err == nil {
			c.Set(subjectKey, subject)
		}
		return next(c)
	}
}

// SubjectFrom returns the resolved caller, or the zero Subject for anonymous
// requests.
func SubjectFrom(c echo.Context) core.Subject {
	if v := c.Get(subjectKey); v != nil {
		if s, ok := v.(core.Subject); ok {
			return s
		}
	}
	return core.Subject{}
}
