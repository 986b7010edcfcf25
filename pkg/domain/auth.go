package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	MetaFullName = "full_name"
)

type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Role      string         `json:"role"`
	Metadata  map[string]any `json:"user_metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

func (u User) FullName() string {
	if v, ok := u.Metadata[MetaFullName].(string); ok {
		return v
	}
	return ""
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Merge overlays non-empty fields of other onto u. Metadata keys are merged.
func (u User) Merge(other User) User {
	if other.ID != "" {
		u.ID = other.ID
	}
	if other.Email != "" {
		u.Email = other.Email
	}
	if other.Role != "" {
		u.Role = other.Role
	}
	if !other.CreatedAt.IsZero() {
		u.CreatedAt = other.CreatedAt
	}
	if len(other.Metadata) > 0 {
		merged := make(map[string]any, len(u.Metadata)+len(other.Metadata))
		for k, v := range u.Metadata {
			merged[k] = v
		}
		for k, v := range other.Metadata {
			merged[k] = v
		}
		u.Metadata = merged
	}
	return u
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

// UserAttributes is an update request; nil fields are left unchanged.
type UserAttributes struct {
	Password *string        `json:"password,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
)

type SignUpRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
