package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/nail_salon/internal/apperr"
	"github.com/Skotchmaster/nail_salon/internal/hash"
	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo/gormrepo"
	"github.com/Skotchmaster/nail_salon/internal/tokens"
)

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *countingObserver) ObserveAuth(op, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[op+"/"+outcome]++
}

func newTestAuthService(t *testing.T) (*AuthService, *gormrepo.GormRepo, *tokens.Issuer) {
	t.Helper()
	store := initTestStore(t)
	iss := newTestIssuer()
	return NewAuthService(store, hash.NewArgon2(testHashParams), iss), store, iss
}

func register(t *testing.T, svc *AuthService) *tokens.Pair {
	t.Helper()
	pair, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "Aa123456!", Name: "A"})
	require.NoError(t, err)
	return pair
}

func TestAuthService_Register(t *testing.T) {
	svc, store, iss := newTestAuthService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, RegisterInput{Email: "  A@B.com ", Password: "Aa123456!", Name: "A"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := iss.AccessClaimsFromToken(pair.AccessToken)
	require.NoError(t, err)

	admin, err := store.AdminByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.Subject)
	assert.Equal(t, models.RoleStaff, admin.Role)
	assert.True(t, admin.IsActive)
	assert.NotEqual(t, "Aa123456!", admin.PasswordHash)
	assert.True(t, admin.HasSession())
	assert.NotEqual(t, pair.RefreshToken, admin.RefreshTokenHash)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "Other1234", Name: "B"})
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "bad email", in: RegisterInput{Email: "not-an-email", Password: "Aa123456!", Name: "A"}},
		{name: "display name email", in: RegisterInput{Email: "A <a@b.com>", Password: "Aa123456!", Name: "A"}},
		{name: "short password", in: RegisterInput{Email: "a@b.com", Password: "short", Name: "A"}},
		{name: "empty name", in: RegisterInput{Email: "a@b.com", Password: "Aa123456!", Name: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			require.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, store, _ := newTestAuthService(t)
	ctx := context.Background()
	first := register(t, svc)

	pair, err := svc.Login(ctx, "A@b.com", "Aa123456!")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	// login replaces the register-time session
	_, err = svc.Refresh(ctx, subject(t, pair), first.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Login(ctx, "a@b.com", "wrong")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody@b.com", "wrong")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	// same message for unknown email and wrong password
	_, errUnknown := svc.Login(ctx, "nobody@b.com", "Aa123456!")
	_, errWrong := svc.Login(ctx, "a@b.com", "nope-nope")
	assert.Equal(t, errUnknown.Error(), errWrong.Error())

	admin, err := store.AdminByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.NoError(t, store.DB.Model(admin).Update("is_active", false).Error)

	_, err = svc.Login(ctx, "a@b.com", "Aa123456!")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func subject(t *testing.T, pair *tokens.Pair) string {
	t.Helper()
	claims, err := newTestIssuer().AccessClaimsFromToken(pair.AccessToken)
	require.NoError(t, err)
	return claims.Subject
}

func TestAuthService_Refresh_RotatesSingleUse(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()
	issued := register(t, svc)
	adminID := subject(t, issued)

	rotated, err := svc.Refresh(ctx, adminID, issued.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, issued.RefreshToken, rotated.RefreshToken)

	_, err = svc.Refresh(ctx, adminID, issued.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	again, err := svc.Refresh(ctx, adminID, rotated.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, rotated.RefreshToken, again.RefreshToken)
}

func TestAuthService_Refresh_Rejections(t *testing.T) {
	svc, store, iss := newTestAuthService(t)
	ctx := context.Background()
	pair := register(t, svc)
	adminID := subject(t, pair)

	_, err := svc.Refresh(ctx, "someone-else", pair.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrUnauthorized, "subject mismatch")

	_, err = svc.Refresh(ctx, adminID, pair.AccessToken)
	require.ErrorIs(t, err, apperr.ErrUnauthorized, "access token used as refresh")

	forged, _, err := iss.CreateRefreshToken(adminID)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, adminID, forged)
	require.ErrorIs(t, err, apperr.ErrUnauthorized, "valid signature but not the stored session")

	stale := newTestIssuer()
	stale.Now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	expired, _, err := stale.CreateRefreshToken(adminID)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, adminID, expired)
	require.ErrorIs(t, err, apperr.ErrUnauthorized, "expired")

	require.NoError(t, store.DB.Model(&models.Admin{}).Where("id = ?", adminID).Update("is_active", false).Error)
	_, err = svc.Refresh(ctx, adminID, pair.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrUnauthorized, "inactive admin")
}

func TestAuthService_Logout(t *testing.T) {
	svc, store, _ := newTestAuthService(t)
	ctx := context.Background()
	pair := register(t, svc)
	adminID := subject(t, pair)

	require.NoError(t, svc.Logout(ctx, adminID))
	require.NoError(t, svc.Logout(ctx, adminID), "logout is idempotent")

	admin, err := store.AdminByID(ctx, adminID)
	require.NoError(t, err)
	assert.False(t, admin.HasSession())

	_, err = svc.Refresh(ctx, adminID, pair.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	require.ErrorIs(t, svc.Logout(ctx, "missing"), apperr.ErrUnauthorized)

	// a fresh login opens a new session again
	relogged, err := svc.Login(ctx, "a@b.com", "Aa123456!")
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, adminID, relogged.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_ObservesOutcomes(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	obs := &countingObserver{}
	svc.Observer = obs
	ctx := context.Background()

	register(t, svc)
	_, _ = svc.Login(ctx, "a@b.com", "wrong")
	_, _ = svc.Login(ctx, "a@b.com", "Aa123456!")

	assert.Equal(t, 1, obs.counts["register/success"])
	assert.Equal(t, 1, obs.counts["login/failure"])
	assert.Equal(t, 1, obs.counts["login/success"])
}
