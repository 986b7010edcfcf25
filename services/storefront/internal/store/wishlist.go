package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/localstore"
)

const WishlistKey = "wishlist"

// Wishlist is a set of product IDs kept in device storage. It is not tied to
// the signed-in user: everyone on a device shares it.
type Wishlist struct {
	storage localstore.Storage

	mu  sync.RWMutex
	ids []string
}

// NewWishlist loads the persisted set. Missing or unreadable data starts an
// empty wishlist.
func NewWishlist(ctx context.Context, storage localstore.Storage) *Wishlist {
	w := &Wishlist{storage: storage}

	raw, ok, err := storage.Get(WishlistKey)
	switch {
	case err != nil:
		logging.FromContext(ctx).Warn("wishlist_load_failed", "error", err)
	case ok:
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			logging.FromContext(ctx).Warn("wishlist_load_failed", "reason", "corrupt data", "error", err)
			break
		}
		w.ids = dedupe(ids)
	}
	return w
}

func (w *Wishlist) AddToWishlist(productID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if contains(w.ids, productID) {
		return nil
	}
	next := append(append([]string{}, w.ids...), productID)
	return w.commit(next)
}

func (w *Wishlist) RemoveFromWishlist(productID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !contains(w.ids, productID) {
		return nil
	}
	next := make([]string, 0, len(w.ids)-1)
	for _, id := range w.ids {
		if id != productID {
			next = append(next, id)
		}
	}
	return w.commit(next)
}

func (w *Wishlist) IsInWishlist(productID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return contains(w.ids, productID)
}

func (w *Wishlist) Items() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string{}, w.ids...)
}

func (w *Wishlist) ItemCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.ids)
}

// commit writes next to storage and only then makes it current. An empty
// wishlist is stored as no value at all.
func (w *Wishlist) commit(next []string) error {
	if len(next) == 0 {
		if err := w.storage.Delete(WishlistKey); err != nil {
			return fmt.Errorf("wishlist: save: %w", err)
		}
		w.ids = next
		return nil
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("wishlist: encode: %w", err)
	}
	if err := w.storage.Set(WishlistKey, raw); err != nil {
		return fmt.Errorf("wishlist: save: %w", err)
	}
	w.ids = next
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
