package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/localstore"
)

func TestWishlist_IdempotentAndPersisted(t *testing.T) {
	storage := localstore.NewMemory()
	w := NewWishlist(context.Background(), storage)

	require.NoError(t, w.AddToWishlist("a"))
	require.NoError(t, w.AddToWishlist("a"))
	require.NoError(t, w.AddToWishlist("b"))
	assert.Equal(t, []string{"a", "b"}, w.Items())

	require.NoError(t, w.RemoveFromWishlist("a"))
	require.NoError(t, w.RemoveFromWishlist("a"))

	reloaded := NewWishlist(context.Background(), storage)
	assert.True(t, reloaded.IsInWishlist("b"))
	assert.False(t, reloaded.IsInWishlist("a"))
	assert.Equal(t, 1, reloaded.ItemCount())
}

func TestWishlist_CorruptDataIsEmpty(t *testing.T) {
	storage := localstore.NewMemory()
	require.NoError(t, storage.Set(WishlistKey, []byte("{not json")))

	w := NewWishlist(context.Background(), storage)
	assert.Equal(t, 0, w.ItemCount())
	require.NoError(t, w.AddToWishlist("a"))
	assert.Equal(t, []string{"a"}, w.Items())
}

type failingStorage struct{ *localstore.Memory }

func (failingStorage) Set(string, []byte) error { return errors.New("disk full") }

func TestWishlist_FailedWriteKeepsState(t *testing.T) {
	w := NewWishlist(context.Background(), failingStorage{localstore.NewMemory()})
	assert.Error(t, w.AddToWishlist("a"))
	assert.False(t, w.IsInWishlist("a"))
}

func TestWishlist_EmptiedListLeavesNoValue(t *testing.T) {
	storage := localstore.NewMemory()
	w := NewWishlist(context.Background(), storage)

	require.NoError(t, w.AddToWishlist("a"))
	require.NoError(t, w.RemoveFromWishlist("a"))

	_, ok, err := storage.Get(WishlistKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, NewWishlist(context.Background(), storage).ItemCount())
}
