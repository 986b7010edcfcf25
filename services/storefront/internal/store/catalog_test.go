package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/beauty_shop/pkg/backendclient"
	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

func loaded(t *testing.T, f *fakeCatalog) *Catalog {
	t.Helper()
	c := NewCatalog(f)
	require.True(t, c.Loading())
	require.NoError(t, c.Load(context.Background()))
	require.False(t, c.Loading())
	return c
}

func TestCatalog_LoadKeepsBackendOrder(t *testing.T) {
	c := loaded(t, &fakeCatalog{
		products: []domain.Product{product("b", "2"), product("a", "1")},
		content:  domain.HomePageContent{BannerTitle: "Hi", NewProductIDs: []string{"a"}},
	})

	ps := c.Products()
	require.Len(t, ps, 2)
	assert.Equal(t, "b", ps[0].ID)
	assert.Equal(t, "Hi", c.HomePageContent().BannerTitle)
}

func TestCatalog_LoadFailureLeavesEmpty(t *testing.T) {
	c := NewCatalog(&fakeCatalog{failList: backendclient.ErrUnavailable})
	err := c.Load(context.Background())
	assert.ErrorIs(t, err, ErrBackend)
	assert.Empty(t, c.Products())
	assert.False(t, c.Loading())
}

func TestCatalog_AddProductPrepends(t *testing.T) {
	c := loaded(t, &fakeCatalog{products: []domain.Product{product("a", "1")}})

	d := domain.DraftFromProduct(product("", "9.50"))
	d.Tags = []string{" Floral ", ""}
	p, err := c.AddProduct(context.Background(), d)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, []string{"floral"}, p.Tags)

	ps := c.Products()
	require.Len(t, ps, 2)
	assert.Equal(t, p.ID, ps[0].ID)
}

func TestCatalog_AddProductInvalidDraft(t *testing.T) {
	c := loaded(t, &fakeCatalog{})
	d := domain.DraftFromProduct(product("", "1"))
	d.Name = "  "

	_, err := c.AddProduct(context.Background(), d)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, domain.ErrInvalidDraft)
	assert.Empty(t, c.Products())
}

func TestCatalog_AddProductUnconfigured(t *testing.T) {
	c := NewCatalog(backendclient.Inert{})
	require.NoError(t, c.Load(context.Background()))
	assert.Empty(t, c.Products())
	assert.Equal(t, domain.DefaultHomePageContent().BannerTitle, c.HomePageContent().BannerTitle)

	_, err := c.AddProduct(context.Background(), domain.DraftFromProduct(product("", "1")))
	assert.ErrorIs(t, err, ErrUnconfigured)
	assert.Empty(t, c.Products())
}

func TestCatalog_UpdateProduct(t *testing.T) {
	c := loaded(t, &fakeCatalog{products: []domain.Product{product("a", "1")}})

	p, _ := c.Product("a")
	p.Name = "Renamed"
	got, err := c.UpdateProduct(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	stored, ok := c.Product("a")
	require.True(t, ok)
	assert.Equal(t, "Renamed", stored.Name)
}

func TestCatalog_UpdateProductFailureKeepsState(t *testing.T) {
	f := &fakeCatalog{products: []domain.Product{product("a", "1")}}
	c := loaded(t, f)
	f.failOps = &backendclient.APIError{Status: 403, Message: "admin only"}

	p, _ := c.Product("a")
	p.Name = "Renamed"
	_, err := c.UpdateProduct(context.Background(), p)
	assert.ErrorIs(t, err, ErrUnauthorized)

	stored, _ := c.Product("a")
	assert.Equal(t, "Product a", stored.Name)
}

func TestCatalog_UpdateUnknownProduct(t *testing.T) {
	c := loaded(t, &fakeCatalog{})
	_, err := c.UpdateProduct(context.Background(), product("zzz", "1"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_ConcurrentMutationIsBusy(t *testing.T) {
	f := &fakeCatalog{
		products: []domain.Product{product("a", "1")},
		block:    make(chan struct{}),
		entered:  make(chan struct{}, 1),
	}
	c := loaded(t, f)
	p, _ := c.Product("a")

	done := make(chan error, 1)
	go func() {
		_, err := c.UpdateProduct(context.Background(), p)
		done <- err
	}()
	<-f.entered

	err := c.DeleteProduct(context.Background(), "a")
	assert.ErrorIs(t, err, ErrBusy)

	close(f.block)
	require.NoError(t, <-done)

	require.NoError(t, c.DeleteProduct(context.Background(), "a"))
}

func TestCatalog_DeleteStripsCuratedLists(t *testing.T) {
	f := &fakeCatalog{
		products: []domain.Product{product("a", "1"), product("b", "1")},
		content: domain.HomePageContent{
			BannerTitle:       "Hi",
			NewProductIDs:     []string{"a", "b"},
			PopularProductIDs: []string{"b", "a"},
		},
	}
	c := loaded(t, f)

	require.NoError(t, c.DeleteProduct(context.Background(), "a"))

	_, ok := c.Product("a")
	assert.False(t, ok)
	content := c.HomePageContent()
	assert.Equal(t, []string{"b"}, content.NewProductIDs)
	assert.Equal(t, []string{"b"}, content.PopularProductIDs)
	require.Len(t, f.saved, 1)
	assert.Equal(t, []string{"b"}, f.saved[0].NewProductIDs)
}

func TestCatalog_DeleteCleansLocallyWhenSaveFails(t *testing.T) {
	f := &fakeCatalog{
		products: []domain.Product{product("a", "1")},
		content:  domain.HomePageContent{BannerTitle: "Hi", NewProductIDs: []string{"a"}},
	}
	c := loaded(t, f)
	f.failSave = backendclient.ErrUnavailable

	require.NoError(t, c.DeleteProduct(context.Background(), "a"))
	assert.Empty(t, c.HomePageContent().NewProductIDs)
}

func TestCatalog_UpdateHomePageContent(t *testing.T) {
	f := &fakeCatalog{}
	c := loaded(t, f)

	_, err := c.UpdateHomePageContent(context.Background(), domain.HomePageContent{})
	assert.ErrorIs(t, err, ErrValidation)

	saved, err := c.UpdateHomePageContent(context.Background(), domain.HomePageContent{
		BannerTitle:   " Summer ",
		NewProductIDs: []string{"x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Summer", saved.BannerTitle)
	assert.Equal(t, "Summer", c.HomePageContent().BannerTitle)

	f.failSave = backendclient.ErrUnavailable
	_, err = c.UpdateHomePageContent(context.Background(), domain.HomePageContent{BannerTitle: "Winter"})
	assert.ErrorIs(t, err, ErrBackend)
	assert.Equal(t, "Summer", c.HomePageContent().BannerTitle)
}

func TestCatalog_DeleteCleanupWaitsForHomeSave(t *testing.T) {
	f := &fakeCatalog{
		products: []domain.Product{product("a", "1"), product("b", "1")},
		content:  domain.HomePageContent{BannerTitle: "Old", NewProductIDs: []string{"a"}},
	}
	c := loaded(t, f)
	f.saveGate = make(chan struct{})
	f.saveEntered = make(chan struct{}, 2)

	updated := make(chan error, 1)
	go func() {
		_, err := c.UpdateHomePageContent(context.Background(), domain.HomePageContent{
			BannerTitle:   "New",
			NewProductIDs: []string{"a", "b"},
		})
		updated <- err
	}()
	<-f.saveEntered

	deleted := make(chan error, 1)
	go func() { deleted <- c.DeleteProduct(context.Background(), "b") }()
	require.Eventually(t, func() bool {
		_, ok := c.Product("b")
		return !ok
	}, time.Second, time.Millisecond)

	close(f.saveGate)
	require.NoError(t, <-updated)
	require.NoError(t, <-deleted)

	content := c.HomePageContent()
	assert.Equal(t, "New", content.BannerTitle)
	assert.Equal(t, []string{"a"}, content.NewProductIDs)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.saved, 2)
	assert.Equal(t, "New", f.saved[1].BannerTitle)
	assert.Equal(t, []string{"a"}, f.saved[1].NewProductIDs)
}

type searchingFake struct {
	*fakeCatalog
	hits  []string
	err   error
	query string
}

func (s *searchingFake) SearchProducts(_ context.Context, q string, page, size int) (*backendclient.SearchPage, error) {
	s.query = q
	if s.err != nil {
		return nil, s.err
	}
	out := &backendclient.SearchPage{}
	for _, id := range s.hits {
		out.Data = append(out.Data, domain.Product{ID: id})
	}
	return out, nil
}

func TestCatalog_SearchKeepsRelevanceOrder(t *testing.T) {
	f := &searchingFake{
		fakeCatalog: &fakeCatalog{products: []domain.Product{product("a", "1"), product("b", "2"), product("c", "3")}},
		hits:        []string{"c", "gone", "a"},
	}
	c := NewCatalog(f)
	require.NoError(t, c.Load(context.Background()))

	got, err := c.Search(context.Background(), "rose")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "3", got[0].Price.String())
	assert.Equal(t, "rose", f.query)
}

func TestCatalog_SearchErrors(t *testing.T) {
	f := &searchingFake{fakeCatalog: &fakeCatalog{}, err: backendclient.ErrUnavailable}
	c := NewCatalog(f)
	require.NoError(t, c.Load(context.Background()))
	_, err := c.Search(context.Background(), "rose")
	assert.ErrorIs(t, err, ErrBackend)

	inert := NewCatalog(backendclient.Inert{})
	_, err = inert.Search(context.Background(), "rose")
	assert.ErrorIs(t, err, ErrUnconfigured)
}
