// Package auth guards echo routes with bearer tokens and carries the caller's
// identity to handlers and services.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	loggingmw "github.com/Skotchmaster/nail_salon/internal/middleware/logging"
	"github.com/Skotchmaster/nail_salon/internal/tokens"
)

type Identity struct {
	AdminID string
	// RefreshToken is only set on routes behind RequireRefresh.
	RefreshToken string
}

type identityCtxKey struct{}

const identityKey = "identity"

type TokenVerifier interface {
	AccessClaimsFromToken(token string) (*tokens.AccessClaims, error)
	RefreshClaimsFromToken(token string) (*tokens.RefreshClaims, error)
}

type Guard struct {
	Tokens TokenVerifier
}

func NewGuard(v TokenVerifier) *Guard {
	return &Guard{Tokens: v}
}

// RequireAccess lets the request through only with a valid access token.
func (g *Guard) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request())
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := g.Tokens.AccessClaimsFromToken(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
		}

		setIdentity(c, Identity{AdminID: claims.Subject})
		return next(c)
	}
}

// RequireRefresh verifies the bearer as a refresh token. The auth service
// still checks it against the stored session.
func (g *Guard) RequireRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request())
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := g.Tokens.RefreshClaimsFromToken(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token")
		}

		setIdentity(c, Identity{AdminID: claims.Subject, RefreshToken: raw})
		return next(c)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func setIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
	c.Set(loggingmw.AdminIDKey, id.AdminID)
	req := c.Request()
	c.SetRequest(req.WithContext(WithIdentity(req.Context(), id)))
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok && id.AdminID != ""
}

// IdentityFrom reads the identity a guard stored on the echo context.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok && id.AdminID != ""
}
