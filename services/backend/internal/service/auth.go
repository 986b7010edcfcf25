package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	pkg_hash "github.com/Skotchmaster/beauty_shop/pkg/hash"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/pkg/tokens"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/models"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/repo"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour

	MinPasswordLen = 6
)

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	AdminEmails   []string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (s *AuthService) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(req.Password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLen)
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if errors.Is(err, pkg_hash.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err != nil {
		l.Error("signup_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		Role:         s.roleFor(email),
		Metadata:     req.Data,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			return nil, fmt.Errorf("%w: user already registered", ErrConflict)
		}
		return nil, err
	}

	l.Info("signup_success", "user_id", user.ID, "role", user.Role)
	return s.issue(ctx, &user)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid login credentials", ErrUnauthorized)
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid login credentials", ErrUnauthorized)
	}

	return s.issue(ctx, user)
}

// Refresh exchanges a refresh token for a new session. The presented token
// is revoked, so each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	uid, ok := models.ParseID(claims.Subject)
	if !ok {
		return nil, fmt.Errorf("%w: bad subject", ErrUnauthorized)
	}
	user, err := s.Repo.GetUserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrUnauthorized)
		}
		return nil, err
	}

	refreshExp := time.Now().Add(s.refreshTTL())
	newRefresh, jti, err := tokens.SignRefreshToken(user.ID.String(), refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, err
	}
	next := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: pkg_hash.Sha256Hex(newRefresh),
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, pkg_hash.Sha256Hex(refreshToken), &next); err != nil {
		if errors.Is(err, repo.ErrRefreshInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}

	return s.sessionWith(user, newRefresh)
}

// Logout revokes the refresh token when it belongs to userID. Unknown or
// malformed tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil || claims.Subject != userID {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, claims.ID)
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	return user.ToDomain(), nil
}

// UpdateUser sets a new password and/or merges metadata keys.
func (s *AuthService) UpdateUser(ctx context.Context, userID string, attrs domain.UserAttributes) (domain.User, error) {
	if attrs.Password != nil && len(*attrs.Password) < MinPasswordLen {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLen)
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if attrs.Password != nil {
		pwHash, err := pkg_hash.HashPassword(*attrs.Password)
		if errors.Is(err, pkg_hash.ErrPasswordTooLong) {
			return domain.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = pwHash
	}
	if len(attrs.Data) > 0 {
		merged := make(map[string]any, len(user.Metadata)+len(attrs.Data))
		for k, v := range user.Metadata {
			merged[k] = v
		}
		for k, v := range attrs.Data {
			merged[k] = v
		}
		user.Metadata = merged
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user.ToDomain(), nil
}

func (s *AuthService) findUser(ctx context.Context, userID string) (*models.User, error) {
	uid, ok := models.ParseID(userID)
	if !ok {
		return nil, fmt.Errorf("user %q: %w", userID, ErrNotFound)
	}
	user, err := s.Repo.GetUserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*domain.Session, error) {
	refreshExp := time.Now().Add(s.refreshTTL())
	refreshToken, jti, err := tokens.SignRefreshToken(user.ID.String(), refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: pkg_hash.Sha256Hex(refreshToken),
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		return nil, err
	}
	return s.sessionWith(user, refreshToken)
}

func (s *AuthService) sessionWith(user *models.User, refreshToken string) (*domain.Session, error) {
	accessExp := time.Now().Add(s.accessTTL())
	accessToken, err := tokens.SignAccessToken(user.ID.String(), user.Email, user.Role, accessExp, s.AccessSecret)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp.UTC(),
		User:         user.ToDomain(),
	}, nil
}

func (s *AuthService) roleFor(email string) string {
	for _, admin := range s.AdminEmails {
		if strings.EqualFold(admin, email) {
			return domain.RoleAdmin
		}
	}
	return domain.RoleUser
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return DefaultAccessTTL
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return DefaultRefreshTTL
}
