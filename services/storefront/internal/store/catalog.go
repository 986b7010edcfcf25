package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
)

// Catalog is the product collection and home page curation shared by every
// device. Mutations go to the backend first and touch local state only after
// the backend accepted them.
type Catalog struct {
	backend CatalogBackend

	mu       sync.RWMutex
	products []domain.Product
	content  domain.HomePageContent
	loading  bool

	flightMu sync.Mutex
	inflight map[string]struct{}

	// homeMu serializes home content saves, so a save never writes back a
	// copy taken before another save finished.
	homeMu sync.Mutex
}

func NewCatalog(backend CatalogBackend) *Catalog {
	return &Catalog{
		backend:  backend,
		content:  domain.DefaultHomePageContent(),
		loading:  true,
		inflight: make(map[string]struct{}),
	}
}

// Load fetches products and home content. A failed product fetch leaves the
// catalog empty; a failed content fetch keeps the default content.
func (c *Catalog) Load(ctx context.Context) error {
	l := logging.FromContext(ctx).With("store", "catalog")

	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	var (
		products []domain.Product
		content  domain.HomePageContent
		g        errgroup.Group
	)
	g.Go(func() error {
		var err error
		products, err = c.backend.ListProducts(ctx)
		if err != nil {
			return BackendError("load products", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		content, err = c.backend.HomeContent(ctx)
		if err != nil {
			l.Warn("home_content_load_failed", "reason", "using default content", "error", err)
			content = domain.DefaultHomePageContent()
		}
		return nil
	})
	err := g.Wait()
	if err != nil {
		l.Error("catalog_load_failed", "error", err)
		products = nil
	}

	c.mu.Lock()
	c.products = append([]domain.Product{}, products...)
	c.content = content.Clone()
	c.loading = false
	c.mu.Unlock()

	l.Info("catalog_loaded", "products", len(products))
	return err
}

func (c *Catalog) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Catalog) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Product{}, c.products...)
}

func (c *Catalog) Product(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(id)
	if i < 0 {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// SearchLimit is the largest page the backend search serves.
const SearchLimit = 100

// Search asks the backend search index and returns the matching catalog
// products in relevance order. Hits the catalog does not hold (yet) are
// skipped. ErrUnconfigured means the backend cannot search at all.
func (c *Catalog) Search(ctx context.Context, q string) ([]domain.Product, error) {
	sb, ok := c.backend.(SearchBackend)
	if !ok {
		return nil, fmt.Errorf("search: %w", ErrUnconfigured)
	}
	page, err := sb.SearchProducts(ctx, q, 1, SearchLimit)
	if err != nil {
		return nil, BackendError("search products", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Product, 0, len(page.Data))
	for _, hit := range page.Data {
		if i := c.indexOf(hit.ID); i >= 0 {
			out = append(out, c.products[i])
		}
	}
	return out, nil
}

func (c *Catalog) HomePageContent() domain.HomePageContent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.content.Clone()
}

func (c *Catalog) AddProduct(ctx context.Context, d domain.ProductDraft) (domain.Product, error) {
	l := logging.FromContext(ctx).With("store", "catalog")

	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	p, err := c.backend.InsertProduct(ctx, d)
	if err != nil {
		l.Warn("product_add_failed", "error", err)
		return domain.Product{}, BackendError("add product", err)
	}

	c.mu.Lock()
	c.products = append([]domain.Product{p}, c.products...)
	c.mu.Unlock()

	l.Info("product_added", "product_id", p.ID)
	return p, nil
}

// UpdateProduct sends every editable field of p and replaces the local entry
// with the row the backend returns.
func (c *Catalog) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	l := logging.FromContext(ctx).With("store", "catalog", "product_id", p.ID)

	if _, ok := c.Product(p.ID); !ok {
		return domain.Product{}, fmt.Errorf("product %q: %w", p.ID, ErrNotFound)
	}

	d := domain.DraftFromProduct(p).Normalize()
	if err := d.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	release, err := c.acquire(p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	defer release()

	updated, err := c.backend.UpdateProduct(ctx, p.ID, d)
	if err != nil {
		l.Warn("product_update_failed", "error", err)
		return domain.Product{}, BackendError("update product", err)
	}

	c.mu.Lock()
	if i := c.indexOf(p.ID); i >= 0 {
		c.products[i] = updated
	}
	c.mu.Unlock()

	l.Info("product_updated")
	return updated, nil
}

// DeleteProduct removes the product and strips it from the curated lists.
// Saving the cleaned home content is best effort.
func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	l := logging.FromContext(ctx).With("store", "catalog", "product_id", id)

	if _, ok := c.Product(id); !ok {
		return fmt.Errorf("product %q: %w", id, ErrNotFound)
	}

	release, err := c.acquire(id)
	if err != nil {
		return err
	}
	defer release()

	if err := c.backend.DeleteProduct(ctx, id); err != nil {
		l.Warn("product_delete_failed", "error", err)
		return BackendError("delete product", err)
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.products = append(c.products[:i:i], c.products[i+1:]...)
	}
	c.mu.Unlock()

	c.cleanHomeContent(ctx, id)
	l.Info("product_deleted")
	return nil
}

// UpdateHomePageContent persists the content and applies what the backend
// stored.
func (c *Catalog) UpdateHomePageContent(ctx context.Context, content domain.HomePageContent) (domain.HomePageContent, error) {
	l := logging.FromContext(ctx).With("store", "catalog")

	content.BannerTitle = strings.TrimSpace(content.BannerTitle)
	content.BannerSubtitle = strings.TrimSpace(content.BannerSubtitle)
	if content.BannerTitle == "" {
		return domain.HomePageContent{}, fmt.Errorf("banner title required: %w", ErrValidation)
	}
	content = content.Clone()

	c.homeMu.Lock()
	defer c.homeMu.Unlock()

	saved, err := c.backend.SaveHomeContent(ctx, content)
	if err != nil {
		l.Warn("home_content_save_failed", "error", err)
		return domain.HomePageContent{}, BackendError("save home content", err)
	}

	c.mu.Lock()
	c.content = saved.Clone()
	c.mu.Unlock()

	l.Info("home_content_saved")
	return saved.Clone(), nil
}

// cleanHomeContent strips a deleted product from the curated lists. The
// local copy is cleaned even when the save fails.
func (c *Catalog) cleanHomeContent(ctx context.Context, id string) {
	c.homeMu.Lock()
	defer c.homeMu.Unlock()

	c.mu.Lock()
	if !c.content.References(id) {
		c.mu.Unlock()
		return
	}
	c.content = c.content.Without(id)
	cleaned := c.content.Clone()
	c.mu.Unlock()

	saved, err := c.backend.SaveHomeContent(ctx, cleaned)
	if err != nil {
		logging.FromContext(ctx).Warn("home_content_cleanup_failed", "product_id", id,
			"reason", "curated lists only cleaned locally", "error", err)
		return
	}
	c.mu.Lock()
	c.content = saved.Clone()
	c.mu.Unlock()
}

// acquire marks id as having a mutation in flight.
func (c *Catalog) acquire(id string) (func(), error) {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()
	if _, busy := c.inflight[id]; busy {
		return nil, fmt.Errorf("product %q: %w", id, ErrBusy)
	}
	c.inflight[id] = struct{}{}
	return func() {
		c.flightMu.Lock()
		delete(c.inflight, id)
		c.flightMu.Unlock()
	}, nil
}

// indexOf requires c.mu to be held.
func (c *Catalog) indexOf(id string) int {
	for i, p := range c.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
