package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/nail_salon/internal/apperr"
	"github.com/Skotchmaster/nail_salon/internal/logging"
	authmw "github.com/Skotchmaster/nail_salon/internal/middleware/auth"
	"github.com/Skotchmaster/nail_salon/internal/service"
	"github.com/Skotchmaster/nail_salon/internal/tokens"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*tokens.Pair, error)
	Login(ctx context.Context, email, password string) (*tokens.Pair, error)
	Refresh(ctx context.Context, adminID, refreshToken string) (*tokens.Pair, error)
	Logout(ctx context.Context, adminID string) error
}

type AuthHandler struct {
	Auth AuthService
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func pairResponse(p *tokens.Pair) tokenResponse {
	return tokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req service.RegisterInput
	if err := bind(c, l, "register", &req); err != nil {
		return err
	}

	pair, err := h.Auth.Register(ctx, req)
	if err != nil {
		return fail(l, "register", err)
	}

	l.Info("register_success", "status", 201)
	return c.JSON(http.StatusCreated, pairResponse(pair))
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := bind(c, l, "login", &req); err != nil {
		return err
	}

	pair, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login", err)
	}

	l.Info("login_success", "status", 200)
	return c.JSON(http.StatusOK, pairResponse(pair))
}

// Refresh runs behind the refresh guard, which supplies the admin id and the
// raw refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	id, ok := authmw.IdentityFrom(c)
	if !ok || id.RefreshToken == "" {
		return fail(l, "refresh", apperr.ErrUnauthorized)
	}

	pair, err := h.Auth.Refresh(ctx, id.AdminID, id.RefreshToken)
	if err != nil {
		return fail(l, "refresh", err)
	}

	l.Info("refresh_success", "status", 200)
	return c.JSON(http.StatusOK, pairResponse(pair))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return fail(l, "logout", apperr.ErrUnauthorized)
	}

	if err := h.Auth.Logout(ctx, id.AdminID); err != nil {
		return fail(l, "logout", err)
	}

	l.Info("logout_success", "status", 200)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}
