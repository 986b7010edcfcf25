package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/tokens"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/repo"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/testutil"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:          &repo.GormRepo{DB: testutil.OpenDB(t)},
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AdminEmails:   []string{"boss@shop.test"},
	}
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret1"},
		{name: "bad email", email: "not-an-email", password: "secret1"},
		{name: "short password", email: "ana@shop.test", password: "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, domain.SignUpRequest{Email: tt.email, Password: tt.password})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_SignUpAndSignIn(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	s, err := svc.SignUp(ctx, domain.SignUpRequest{
		Email:    "Ana@Shop.test",
		Password: "secret1",
		Data:     map[string]any{"full_name": "Ana"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@shop.test", s.User.Email)
	assert.Equal(t, domain.RoleUser, s.User.Role)
	assert.Equal(t, "Ana", s.User.FullName())

	claims, err := tokens.AccessClaimsFromToken(s.AccessToken, svc.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, claims.Subject)

	_, err = svc.SignUp(ctx, domain.SignUpRequest{Email: "ana@shop.test", Password: "secret2"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.SignIn(ctx, "ana@shop.test", "wrong-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.SignIn(ctx, "nobody@shop.test", "secret1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	s2, err := svc.SignIn(ctx, "ANA@shop.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, s2.User.ID)
}

func TestAuthService_AdminRoleFromConfig(t *testing.T) {
	svc := newTestAuthService(t)
	s, err := svc.SignUp(context.Background(), domain.SignUpRequest{Email: "Boss@shop.test", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, s.User.Role)
}

func TestAuthService_RefreshRotates(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	s, err := svc.SignUp(ctx, domain.SignUpRequest{Email: "ana@shop.test", Password: "secret1"})
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, s.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, s.RefreshToken, next.RefreshToken)

	_, err = svc.Refresh(ctx, s.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, next.User.ID, next.RefreshToken))
	_, err = svc.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_UpdateUser(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	s, err := svc.SignUp(ctx, domain.SignUpRequest{Email: "ana@shop.test", Password: "secret1", Data: map[string]any{"full_name": "Ana", "city": "Lima"}})
	require.NoError(t, err)

	short := "123"
	_, err = svc.UpdateUser(ctx, s.User.ID, domain.UserAttributes{Password: &short})
	assert.ErrorIs(t, err, ErrValidation)

	u, err := svc.UpdateUser(ctx, s.User.ID, domain.UserAttributes{Data: map[string]any{"full_name": "Ana María"}})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", u.FullName())
	assert.Equal(t, "Lima", u.Metadata["city"])

	pw := "new-secret"
	_, err = svc.UpdateUser(ctx, s.User.ID, domain.UserAttributes{Password: &pw})
	require.NoError(t, err)
	_, err = svc.SignIn(ctx, "ana@shop.test", "secret1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.SignIn(ctx, "ana@shop.test", pw)
	assert.NoError(t, err)

	_, err = svc.GetUser(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
