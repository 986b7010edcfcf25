package store

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
)

const MinPasswordLen = 6

// Auth mirrors one device's backend session. The mirror is replaced on every
// session-change notification; Ready is closed once the first state is known.
type Auth struct {
	backend     AuthBackend
	unsubscribe func()

	mu      sync.RWMutex
	session *domain.Session
	seen    bool

	ready chan struct{}
	once  sync.Once
}

func NewAuth(backend AuthBackend) *Auth {
	a := &Auth{backend: backend, ready: make(chan struct{})}
	a.unsubscribe = backend.OnAuthStateChange(a.onChange)
	return a
}

// Init retrieves the current session once. A notification that arrived in
// the meantime wins over the retrieved value.
func (a *Auth) Init(ctx context.Context) {
	s, err := a.backend.Session(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("auth_init_failed", "reason", "session lookup failed", "error", err)
	}

	a.mu.Lock()
	if !a.seen {
		a.session = s
		a.seen = true
	}
	a.mu.Unlock()
	a.release()
}

func (a *Auth) onChange(event domain.AuthEvent, s *domain.Session) {
	a.mu.Lock()
	a.session = s
	a.seen = true
	a.mu.Unlock()
	a.release()
}

func (a *Auth) release() {
	a.once.Do(func() { close(a.ready) })
}

func (a *Auth) Ready() <-chan struct{} { return a.ready }

// Wait blocks until the initial session is known or ctx is done.
func (a *Auth) Wait(ctx context.Context) error {
	select {
	case <-a.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Auth) Loading() bool {
	select {
	case <-a.ready:
		return false
	default:
		return true
	}
}

func (a *Auth) Session() *domain.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return nil
	}
	cp := *a.session
	if a.session.User.Metadata != nil {
		cp.User.Metadata = make(map[string]any, len(a.session.User.Metadata))
		for k, v := range a.session.User.Metadata {
			cp.User.Metadata[k] = v
		}
	}
	return &cp
}

func (a *Auth) User() (domain.User, bool) {
	s := a.Session()
	if s == nil {
		return domain.User{}, false
	}
	return s.User, true
}

// AccessToken returns a bearer token for backend calls, refreshing the
// session when needed. Anonymous devices get an empty token.
func (a *Auth) AccessToken(ctx context.Context) (string, error) {
	tok, err := a.backend.AccessToken(ctx)
	if err != nil {
		return tok, BackendError("access token", err)
	}
	return tok, nil
}

func (a *Auth) SignUp(ctx context.Context, email, password, confirm, fullName string) error {
	email = strings.TrimSpace(email)
	if err := ValidateCredentials(email, password); err != nil {
		return err
	}
	if err := ValidateNewPassword(password, confirm); err != nil {
		return err
	}

	req := domain.SignUpRequest{
		Email:    email,
		Password: password,
		Data:     map[string]any{domain.MetaFullName: strings.TrimSpace(fullName)},
	}
	if _, err := a.backend.SignUp(ctx, req); err != nil {
		logging.FromContext(ctx).Warn("sign_up_failed", "error", err)
		return BackendError("sign up", err)
	}
	return nil
}

func (a *Auth) SignIn(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := ValidateCredentials(email, password); err != nil {
		return err
	}
	if _, err := a.backend.SignInWithPassword(ctx, email, password); err != nil {
		logging.FromContext(ctx).Warn("sign_in_failed", "error", err)
		return BackendError("sign in", err)
	}
	return nil
}

func (a *Auth) SignOut(ctx context.Context) error {
	if err := a.backend.SignOut(ctx); err != nil {
		logging.FromContext(ctx).Warn("sign_out_failed", "error", err)
		return BackendError("sign out", err)
	}
	return nil
}

// UpdateUser merges the returned user into the mirror right away; the
// backend does not notify about metadata-only changes.
func (a *Auth) UpdateUser(ctx context.Context, attrs domain.UserAttributes) (domain.User, error) {
	if a.Session() == nil {
		return domain.User{}, fmt.Errorf("update user: %w", ErrUnauthorized)
	}
	if attrs.Password != nil && len(*attrs.Password) < MinPasswordLen {
		return domain.User{}, fmt.Errorf("password must be at least %d characters: %w", MinPasswordLen, ErrValidation)
	}

	u, err := a.backend.UpdateUser(ctx, attrs)
	if err != nil {
		logging.FromContext(ctx).Warn("user_update_failed", "error", err)
		return domain.User{}, BackendError("update user", err)
	}

	a.mu.Lock()
	if a.session != nil {
		next := *a.session
		next.User = next.User.Merge(u)
		a.session = &next
	}
	a.mu.Unlock()

	merged, _ := a.User()
	return merged, nil
}

func (a *Auth) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return fmt.Errorf("email and password are required: %w", ErrValidation)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("invalid email: %w", ErrValidation)
	}
	return nil
}

func ValidateNewPassword(password, confirm string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters: %w", MinPasswordLen, ErrValidation)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match: %w", ErrValidation)
	}
	return nil
}
