// Package seed loads a YAML catalog file into the shop through the catalog
// store, the same path the admin panel uses.
package seed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/store"
)

const (
	SectionNew     = "new"
	SectionPopular = "popular"
)

type File struct {
	Home     *Home     `yaml:"home"`
	Products []Product `yaml:"products"`
}

type Home struct {
	BannerTitle    string `yaml:"banner_title"`
	BannerSubtitle string `yaml:"banner_subtitle"`
}

type Product struct {
	Name        string   `yaml:"name"`
	Brand       string   `yaml:"brand"`
	Price       string   `yaml:"price"`
	SalePrice   string   `yaml:"sale_price"`
	ImageURL    string   `yaml:"image_url"`
	Category    string   `yaml:"category"`
	Audience    string   `yaml:"audience"`
	Tags        []string `yaml:"tags"`
	Description string   `yaml:"description"`
	Ingredients []string `yaml:"ingredients"`
	Stock       int      `yaml:"stock"`
	// Featured lists the home sections the product is curated into.
	Featured []string `yaml:"featured"`
}

func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("seed: parse: %w", err)
	}
	return &f, nil
}

func (p Product) Draft() (domain.ProductDraft, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(p.Price))
	if err != nil {
		return domain.ProductDraft{}, fmt.Errorf("price %q: %w", p.Price, store.ErrValidation)
	}
	category, ok := domain.ParseCategory(p.Category)
	if !ok {
		return domain.ProductDraft{}, fmt.Errorf("category %q: %w", p.Category, store.ErrValidation)
	}
	audience, ok := domain.ParseAudience(p.Audience)
	if !ok {
		return domain.ProductDraft{}, fmt.Errorf("audience %q: %w", p.Audience, store.ErrValidation)
	}

	d := domain.ProductDraft{
		Version:     domain.DraftVersion,
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       price,
		ImageURL:    p.ImageURL,
		Category:    category,
		Audience:    audience,
		Tags:        p.Tags,
		Description: p.Description,
		Ingredients: p.Ingredients,
		Stock:       p.Stock,
	}
	if s := strings.TrimSpace(p.SalePrice); s != "" {
		sale, err := decimal.NewFromString(s)
		if err != nil {
			return domain.ProductDraft{}, fmt.Errorf("sale price %q: %w", p.SalePrice, store.ErrValidation)
		}
		d.SalePrice = &sale
	}
	return d, nil
}

type Result struct {
	Added   int
	Skipped int
}

// Run adds every product that is not in the catalog yet (same brand and
// name), then curates featured products into the home sections.
func Run(ctx context.Context, cat *store.Catalog, f *File) (Result, error) {
	l := logging.FromContext(ctx).With("component", "seed")

	existing := map[string]string{}
	for _, p := range cat.Products() {
		existing[identity(p.Brand, p.Name)] = p.ID
	}

	var (
		res              Result
		newIDs, popular  []string
		featuredAnything bool
	)
	for i, sp := range f.Products {
		id, seen := existing[identity(sp.Brand, sp.Name)]
		if seen {
			res.Skipped++
		} else {
			d, err := sp.Draft()
			if err != nil {
				return res, fmt.Errorf("product %d (%s): %w", i+1, sp.Name, err)
			}
			p, err := cat.AddProduct(ctx, d)
			if err != nil {
				return res, fmt.Errorf("product %d (%s): %w", i+1, sp.Name, err)
			}
			id = p.ID
			existing[identity(sp.Brand, sp.Name)] = id
			res.Added++
			l.Info("seed_product_added", "product_id", id, "name", p.Name)
		}

		for _, section := range sp.Featured {
			featuredAnything = true
			switch strings.ToLower(strings.TrimSpace(section)) {
			case SectionNew:
				newIDs = append(newIDs, id)
			case SectionPopular:
				popular = append(popular, id)
			default:
				return res, fmt.Errorf("product %d (%s): unknown section %q: %w", i+1, sp.Name, section, store.ErrValidation)
			}
		}
	}

	if f.Home == nil && !featuredAnything {
		return res, nil
	}

	content := cat.HomePageContent()
	if f.Home != nil {
		if f.Home.BannerTitle != "" {
			content.BannerTitle = f.Home.BannerTitle
		}
		if f.Home.BannerSubtitle != "" {
			content.BannerSubtitle = f.Home.BannerSubtitle
		}
	}
	content.NewProductIDs = appendMissing(content.NewProductIDs, newIDs)
	content.PopularProductIDs = appendMissing(content.PopularProductIDs, popular)

	if _, err := cat.UpdateHomePageContent(ctx, content); err != nil {
		return res, fmt.Errorf("home content: %w", err)
	}
	return res, nil
}

func identity(brand, name string) string {
	return strings.ToLower(strings.TrimSpace(brand)) + "\x00" + strings.ToLower(strings.TrimSpace(name))
}

func appendMissing(ids, more []string) []string {
	out := append([]string{}, ids...)
	for _, id := range more {
		found := false
		for _, v := range out {
			if v == id {
				found = true
				break
			}
		}
		if !found {
			out = append(out, id)
		}
	}
	return out
}
