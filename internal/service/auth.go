package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/nail_salon/internal/apperr"
	"github.com/Skotchmaster/nail_salon/internal/hash"
	"github.com/Skotchmaster/nail_salon/internal/logging"
	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"github.com/Skotchmaster/nail_salon/internal/tokens"
)

const minPasswordLen = 8

var errInvalidCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)

type TokenIssuer interface {
	IssuePair(adminID string) (*tokens.Pair, error)
	RefreshClaimsFromToken(token string) (*tokens.RefreshClaims, error)
}

// AuthObserver receives one call per finished auth operation.
type AuthObserver interface {
	ObserveAuth(op, outcome string)
}

type AuthService struct {
	Admins   repo.AdminRepository
	Hasher   hash.Hasher
	Tokens   TokenIssuer
	Observer AuthObserver

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(admins repo.AdminRepository, hasher hash.Hasher, issuer TokenIssuer) *AuthService {
	return &AuthService{Admins: admins, Hasher: hasher, Tokens: issuer}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (in *RegisterInput) validate() error {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Avatar = strings.TrimSpace(in.Avatar)

	switch {
	case !validEmail(in.Email):
		return fmt.Errorf("%w: email must be a valid address", apperr.ErrValidation)
	case len(in.Password) < minPasswordLen:
		return fmt.Errorf("%w: password must be at least %d characters", apperr.ErrValidation, minPasswordLen)
	case in.Name == "":
		return fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}
	return nil
}

func (s *AuthService) observe(op string, err error) {
	if s.Observer == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	s.Observer.ObserveAuth(op, outcome)
}

// issue mints a pair and returns it with the hash of its refresh token.
func (s *AuthService) issue(adminID string) (*tokens.Pair, string, error) {
	pair, err := s.Tokens.IssuePair(adminID)
	if err != nil {
		return nil, "", fmt.Errorf("issue tokens: %w", err)
	}
	refreshHash, err := s.Hasher.Hash(pair.RefreshToken)
	if err != nil {
		return nil, "", fmt.Errorf("hash refresh token: %w", err)
	}
	return pair, refreshHash, nil
}

// Register creates the admin and opens its first session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (pair *tokens.Pair, err error) {
	defer func() { s.observe("register", err) }()
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := in.validate(); err != nil {
		l.Warn("register_failed", "status", 400, "reason", err.Error())
		return nil, err
	}

	pwHash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.NewString()
	pair, refreshHash, err := s.issue(id)
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	now := time.Now().UTC()
	admin := &models.Admin{
		ID:               id,
		Email:            in.Email,
		PasswordHash:     pwHash,
		Name:             in.Name,
		Avatar:           in.Avatar,
		Role:             models.RoleStaff,
		RefreshTokenHash: refreshHash,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Admins.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_failed", "status", 409, "reason", "email already registered")
			return nil, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
		}
		l.Error("register_failed", "status", 500, "reason", "cannot create admin", "error", err)
		return nil, fmt.Errorf("create admin: %w", err)
	}

	l.Info("admin_registered", "admin_id", id)
	return pair, nil
}

// Login replaces any previous session of the admin.
func (s *AuthService) Login(ctx context.Context, email, password string) (pair *tokens.Pair, err error) {
	defer func() { s.observe("login", err) }()
	l := logging.FromContext(ctx).With("svc", "auth.login")

	admin, err := s.Admins.AdminByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			l.Error("login_failed", "status", 500, "reason", "cannot load admin", "error", err)
			return nil, fmt.Errorf("load admin: %w", err)
		}
		// keep the unknown-email path as slow as a real verification
		s.Hasher.Verify(password, s.dummy())
		l.Warn("login_failed", "status", 401, "reason", "unknown email")
		return nil, errInvalidCredentials
	}

	if !s.Hasher.Verify(password, admin.PasswordHash) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "admin_id", admin.ID)
		return nil, errInvalidCredentials
	}
	if !admin.IsActive {
		l.Warn("login_failed", "status", 401, "reason", "admin inactive", "admin_id", admin.ID)
		return nil, errInvalidCredentials
	}

	pair, refreshHash, err := s.issue(admin.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if err := s.Admins.SetRefreshHash(ctx, admin.ID, refreshHash); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store session", "error", err)
		return nil, fmt.Errorf("store session: %w", err)
	}

	l.Info("admin_logged_in", "admin_id", admin.ID)
	return pair, nil
}

// Refresh rotates the session: the presented token must match the stored
// hash, and the swap only happens if nobody rotated it in between.
func (s *AuthService) Refresh(ctx context.Context, adminID, refreshToken string) (pair *tokens.Pair, err error) {
	defer func() { s.observe("refresh", err) }()
	l := logging.FromContext(ctx).With("svc", "auth.refresh", "admin_id", adminID)
	unauthorized := fmt.Errorf("%w: invalid refresh token", apperr.ErrUnauthorized)

	claims, err := s.Tokens.RefreshClaimsFromToken(refreshToken)
	if err != nil || claims.Subject != adminID {
		l.Warn("refresh_failed", "status", 401, "reason", "token does not verify")
		return nil, unauthorized
	}

	admin, err := s.Admins.AdminByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "unknown admin")
			return nil, unauthorized
		}
		l.Error("refresh_failed", "status", 500, "reason", "cannot load admin", "error", err)
		return nil, fmt.Errorf("load admin: %w", err)
	}

	switch {
	case !admin.IsActive:
		l.Warn("refresh_failed", "status", 401, "reason", "admin inactive")
		return nil, unauthorized
	case !admin.HasSession():
		l.Warn("refresh_failed", "status", 401, "reason", "no active session")
		return nil, unauthorized
	case !s.Hasher.Verify(refreshToken, admin.RefreshTokenHash):
		l.Warn("refresh_failed", "status", 401, "reason", "token is not the current session")
		return nil, unauthorized
	}

	pair, refreshHash, err := s.issue(admin.ID)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}
	if err := s.Admins.RotateRefreshHash(ctx, admin.ID, admin.RefreshTokenHash, refreshHash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "session changed concurrently")
			return nil, unauthorized
		}
		l.Error("refresh_failed", "status", 500, "reason", "cannot rotate session", "error", err)
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	return pair, nil
}

// Logout is idempotent for an existing admin.
func (s *AuthService) Logout(ctx context.Context, adminID string) (err error) {
	defer func() { s.observe("logout", err) }()
	l := logging.FromContext(ctx).With("svc", "auth.logout", "admin_id", adminID)

	if err := s.Admins.ClearRefreshHash(ctx, adminID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("logout_failed", "status", 401, "reason", "unknown admin")
			return fmt.Errorf("%w: unknown admin", apperr.ErrUnauthorized)
		}
		l.Error("logout_failed", "status", 500, "error", err)
		return fmt.Errorf("clear session: %w", err)
	}

	l.Info("admin_logged_out")
	return nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash("timing-equaliser-" + uuid.NewString())
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
