// Package session keeps the per-device state of the storefront: cart,
// wishlist, auth mirror and checkout progress.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/checkout"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/localstore"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/store"
)

const CookieName = "device_id"

type Session struct {
	DeviceID string
	Cart     *store.Cart
	Wishlist *store.Wishlist
	Auth     *store.Auth
	Checkout *checkout.State

	storage  localstore.Storage
	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// StorageFactory opens the device-local storage of one device.
type StorageFactory func(deviceID string) (localstore.Storage, error)

// AuthFactory builds the backend auth client of one device on top of its storage.
type AuthFactory func(storage localstore.Storage) store.AuthBackend

type Registry struct {
	newStorage StorageFactory
	newAuth    AuthFactory
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(newStorage StorageFactory, newAuth AuthFactory) *Registry {
	return &Registry{
		newStorage: newStorage,
		newAuth:    newAuth,
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
}

func NewDeviceID() string { return uuid.NewString() }

func ValidDeviceID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the session of deviceID, opening it on first use. The initial
// auth lookup runs in the background; callers wait on Auth.Wait.
func (r *Registry) Get(ctx context.Context, deviceID string) (*Session, error) {
	if !ValidDeviceID(deviceID) {
		return nil, fmt.Errorf("device id %q: %w", deviceID, store.ErrValidation)
	}

	r.mu.Lock()
	if s, ok := r.sessions[deviceID]; ok {
		r.mu.Unlock()
		s.touch(r.now())
		return s, nil
	}
	r.mu.Unlock()

	s, err := r.open(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if existing, ok := r.sessions[deviceID]; ok {
		r.mu.Unlock()
		s.Auth.Close()
		existing.touch(r.now())
		return existing, nil
	}
	r.sessions[deviceID] = s
	r.mu.Unlock()

	go s.Auth.Init(context.WithoutCancel(ctx))
	return s, nil
}

func (r *Registry) open(ctx context.Context, deviceID string) (*Session, error) {
	storage, err := r.newStorage(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open device storage: %w", err)
	}
	return &Session{
		DeviceID: deviceID,
		Cart:     store.NewCart(),
		Wishlist: store.NewWishlist(ctx, storage),
		Auth:     store.NewAuth(r.newAuth(storage)),
		Checkout: &checkout.State{},
		storage:  storage,
		lastSeen: r.now(),
	}, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep forgets sessions idle for longer than maxIdle. Their wishlist and
// auth session stay in device storage; the in-memory cart is dropped, and so
// is the storage of devices that never stored anything.
func (r *Registry) Sweep(ctx context.Context, maxIdle time.Duration) int {
	l := logging.FromContext(ctx)
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Auth.Close()
		if p, ok := s.storage.(localstore.Pruner); ok {
			if err := p.Prune(); err != nil {
				l.Warn("device_prune_failed", "device_id", s.DeviceID, "error", err)
			}
		}
	}
	if len(stale) > 0 {
		l.Info("sessions_swept", "count", len(stale))
	}
	return len(stale)
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			r.Sweep(ctx, maxIdle)
		}
	}
}
