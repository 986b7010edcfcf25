package backendclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
)

const sessionKey = "auth_session"

// refreshLeeway renews a session slightly before the access token expires.
const refreshLeeway = 30 * time.Second

// SessionStorage is the device-local key/value store the session is kept in.
type SessionStorage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

type AuthStateListener func(event domain.AuthEvent, session *domain.Session)

// AuthClient keeps one device's session. It persists the session to the
// device storage and notifies listeners about every change.
type AuthClient struct {
	api     *Client
	storage SessionStorage
	now     func() time.Time

	// op serializes network operations so a refresh is never issued twice.
	op sync.Mutex

	mu        sync.Mutex
	session   *domain.Session
	restored  bool
	listeners map[int]AuthStateListener
	nextID    int
}

func (c *Client) NewAuthClient(storage SessionStorage) *AuthClient {
	return &AuthClient{
		api:       c,
		storage:   storage,
		now:       time.Now,
		listeners: make(map[int]AuthStateListener),
	}
}

// OnAuthStateChange registers fn and returns a function that removes it.
// Listeners run synchronously on the goroutine that caused the change.
func (a *AuthClient) OnAuthStateChange(fn AuthStateListener) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

// Session returns the current session, refreshing it when the access token
// is about to expire. A nil session means nobody is signed in.
func (a *AuthClient) Session(ctx context.Context) (*domain.Session, error) {
	a.op.Lock()
	defer a.op.Unlock()

	s := a.current(ctx)
	if s == nil {
		return nil, nil
	}
	if a.now().Add(refreshLeeway).Before(s.ExpiresAt) {
		return s, nil
	}

	refreshed, err := a.refresh(ctx, s.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return s, err
		}
		logging.FromContext(ctx).Warn("session_refresh_failed", "reason", "refresh token rejected", "error", err)
		a.set(ctx, nil, domain.EventSignedOut)
		return nil, nil
	}
	a.set(ctx, refreshed, domain.EventTokenRefreshed)
	return copySession(refreshed), nil
}

// AccessToken is a shortcut for the bearer token of the current session.
func (a *AuthClient) AccessToken(ctx context.Context) (string, error) {
	s, err := a.Session(ctx)
	if s == nil {
		return "", err
	}
	return s.AccessToken, err
}

func (a *AuthClient) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Session, error) {
	a.op.Lock()
	defer a.op.Unlock()

	var s domain.Session
	if err := a.api.do(ctx, http.MethodPost, "/auth/v1/signup", nil, req, &s); err != nil {
		return nil, err
	}
	a.set(ctx, &s, domain.EventSignedIn)
	return copySession(&s), nil
}

func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	a.op.Lock()
	defer a.op.Unlock()

	query := url.Values{"grant_type": {"password"}}
	var s domain.Session
	req := domain.SignInRequest{Email: email, Password: password}
	if err := a.api.do(ctx, http.MethodPost, "/auth/v1/token", query, req, &s); err != nil {
		return nil, err
	}
	a.set(ctx, &s, domain.EventSignedIn)
	return copySession(&s), nil
}

// SignOut revokes the refresh token on the backend and always forgets the
// local session, even when the backend call fails.
func (a *AuthClient) SignOut(ctx context.Context) error {
	a.op.Lock()
	defer a.op.Unlock()

	s := a.current(ctx)
	if s == nil {
		return nil
	}

	var err error
	callCtx := WithAccessToken(ctx, s.AccessToken)
	if callErr := a.api.do(callCtx, http.MethodPost, "/auth/v1/logout", nil,
		domain.RefreshRequest{RefreshToken: s.RefreshToken}, nil); callErr != nil && !errors.Is(callErr, ErrUnauthorized) {
		err = callErr
	}

	a.set(ctx, nil, domain.EventSignedOut)
	return err
}

// UpdateUser changes password and/or metadata. Listeners only hear about
// password changes; callers that change metadata reconcile from the
// returned user themselves.
func (a *AuthClient) UpdateUser(ctx context.Context, attrs domain.UserAttributes) (domain.User, error) {
	a.op.Lock()
	defer a.op.Unlock()

	s := a.current(ctx)
	if s == nil {
		return domain.User{}, &APIError{Status: http.StatusUnauthorized, Message: "not signed in"}
	}

	var u domain.User
	if err := a.api.do(WithAccessToken(ctx, s.AccessToken), http.MethodPut, "/auth/v1/user", nil, attrs, &u); err != nil {
		return domain.User{}, err
	}

	next := copySession(s)
	next.User = next.User.Merge(u)
	if attrs.Password != nil {
		a.set(ctx, next, domain.EventUserUpdated)
	} else {
		a.setQuiet(ctx, next)
	}
	return u, nil
}

func (a *AuthClient) refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	query := url.Values{"grant_type": {"refresh_token"}}
	var s domain.Session
	if err := a.api.do(ctx, http.MethodPost, "/auth/v1/token", query, domain.RefreshRequest{RefreshToken: refreshToken}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// current returns a copy of the session, restoring it from storage on first use.
func (a *AuthClient) current(ctx context.Context) *domain.Session {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.restored {
		a.restored = true
		a.session = a.restore(ctx)
	}
	return copySession(a.session)
}

func (a *AuthClient) restore(ctx context.Context) *domain.Session {
	raw, ok, err := a.storage.Get(sessionKey)
	if err != nil {
		logging.FromContext(ctx).Warn("session_restore_failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil || s.AccessToken == "" {
		return nil
	}
	return &s
}

func (a *AuthClient) setQuiet(ctx context.Context, s *domain.Session) {
	a.mu.Lock()
	a.session = copySession(s)
	a.restored = true
	a.mu.Unlock()
	a.persist(ctx, s)
}

func (a *AuthClient) set(ctx context.Context, s *domain.Session, event domain.AuthEvent) {
	a.setQuiet(ctx, s)

	a.mu.Lock()
	fns := make([]AuthStateListener, 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(event, copySession(s))
	}
}

func (a *AuthClient) persist(ctx context.Context, s *domain.Session) {
	l := logging.FromContext(ctx)
	if s == nil {
		if err := a.storage.Delete(sessionKey); err != nil {
			l.Warn("session_persist_failed", "error", err)
		}
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		l.Warn("session_persist_failed", "error", err)
		return
	}
	if err := a.storage.Set(sessionKey, raw); err != nil {
		l.Warn("session_persist_failed", "error", err)
	}
}

func copySession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.User.Metadata != nil {
		cp.User.Metadata = make(map[string]any, len(s.User.Metadata))
		for k, v := range s.User.Metadata {
			cp.User.Metadata[k] = v
		}
	}
	return &cp
}
