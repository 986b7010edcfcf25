package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/pkg/mykafka"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/models"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/repo"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/search"
)

const settingHomeContent = "home_content"

type CatalogService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
	// Index is nil when Elasticsearch is not configured.
	Index search.Index
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return models.ProductsToDomain(rows), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	row, err := s.findProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return row.ToDomain(), nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, d domain.ProductDraft) (domain.Product, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var row models.Product
	row.ApplyDraft(d)
	if err := s.Repo.CreateProduct(ctx, &row); err != nil {
		return domain.Product{}, err
	}

	p := row.ToDomain()
	s.afterWrite(ctx, "product_created", p)
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, d domain.ProductDraft) (domain.Product, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	row, err := s.findProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	row.ApplyDraft(d)
	if err := s.Repo.SaveProduct(ctx, row); err != nil {
		return domain.Product{}, err
	}

	p := row.ToDomain()
	s.afterWrite(ctx, "product_updated", p)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	uid, ok := models.ParseID(id)
	if !ok {
		return fmt.Errorf("product %q: %w", id, ErrNotFound)
	}
	if err := s.Repo.DeleteProduct(ctx, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %q: %w", id, ErrNotFound)
		}
		return err
	}

	publish(ctx, s.Events, TopicProducts, id, ProductEvent{Type: "product_deleted", ProductID: id, At: time.Now().UTC()})
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_unindex_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

// SearchProducts uses the search index when there is one and falls back to
// the database when there is none or it fails.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []domain.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, []domain.Product{}, nil
	}

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to database", "error", err)
	}

	total, rows, err := s.Repo.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	return total, models.ProductsToDomain(rows), nil
}

// HomeContent returns the stored home page content, or the default content
// when none was saved yet.
func (s *CatalogService) HomeContent(ctx context.Context) (domain.HomePageContent, error) {
	setting, err := s.Repo.GetSetting(ctx, settingHomeContent)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DefaultHomePageContent(), nil
		}
		return domain.HomePageContent{}, err
	}

	var c domain.HomePageContent
	if err := json.Unmarshal([]byte(setting.Value), &c); err != nil {
		logging.FromContext(ctx).Warn("home_content_corrupt", "error", err)
		return domain.DefaultHomePageContent(), nil
	}
	return normalizeContent(c), nil
}

func (s *CatalogService) SaveHomeContent(ctx context.Context, c domain.HomePageContent) (domain.HomePageContent, error) {
	c = normalizeContent(c)
	if c.BannerTitle == "" {
		return domain.HomePageContent{}, fmt.Errorf("%w: banner title required", ErrValidation)
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return domain.HomePageContent{}, err
	}
	if err := s.Repo.PutSetting(ctx, settingHomeContent, string(raw)); err != nil {
		return domain.HomePageContent{}, err
	}
	return c, nil
}

func (s *CatalogService) findProduct(ctx context.Context, id string) (*models.Product, error) {
	uid, ok := models.ParseID(id)
	if !ok {
		return nil, fmt.Errorf("product %q: %w", id, ErrNotFound)
	}
	row, err := s.Repo.GetProduct(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %q: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return row, nil
}

func (s *CatalogService) afterWrite(ctx context.Context, eventType string, p domain.Product) {
	publish(ctx, s.Events, TopicProducts, p.ID, ProductEvent{Type: eventType, ProductID: p.ID, Name: p.Name, At: time.Now().UTC()})
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
		}
	}
}

// normalizeContent trims the banner and drops blank or repeated ids while
// keeping the curated order. Ids are not checked against the catalog.
func normalizeContent(c domain.HomePageContent) domain.HomePageContent {
	c.BannerTitle = strings.TrimSpace(c.BannerTitle)
	c.BannerSubtitle = strings.TrimSpace(c.BannerSubtitle)
	c.NewProductIDs = cleanIDs(c.NewProductIDs)
	c.PopularProductIDs = cleanIDs(c.PopularProductIDs)
	return c
}

func cleanIDs(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, id := range in {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
