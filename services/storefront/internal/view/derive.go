package view

import (
	"sort"
	"strings"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

const (
	SimilarLimit = 4
	facetTagMax  = 10
)

// Search matches q case-insensitively against the text fields of a product.
// An empty query matches nothing.
func Search(products []domain.Product, q string) []domain.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []domain.Product{}
	if q == "" {
		return out
	}
	for _, p := range products {
		if searchable(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func searchable(p domain.Product, q string) bool {
	fields := []string{p.Name, p.Brand, p.Description, string(p.Category), string(p.Audience)}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	for _, t := range p.Tags {
		if strings.Contains(t, q) {
			return true
		}
	}
	return false
}

// Offers lists products with an active sale price.
func Offers(products []domain.Product) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if p.OnSale() {
			out = append(out, p)
		}
	}
	return out
}

func ByAudience(products []domain.Product, a domain.Audience) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if p.Audience == a {
			out = append(out, p)
		}
	}
	return out
}

func ByCategory(products []domain.Product, c domain.Category) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// Similar returns up to limit other products from the same category.
func Similar(products []domain.Product, of domain.Product, limit int) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if p.ID != of.ID && p.Category == of.Category {
			out = append(out, p)
		}
	}
	return out
}

type Facets struct {
	Categories []string `json:"categories"`
	Audiences  []string `json:"audiences"`
	Brands     []string `json:"brands"`
	Tags       []string `json:"tags"`
}

// BuildFacets lists the filter options present in products. Brands are
// sorted; tags keep first-seen order and are capped.
func BuildFacets(products []domain.Product) Facets {
	f := Facets{Categories: []string{}, Audiences: []string{}, Brands: []string{}, Tags: []string{}}
	for _, c := range domain.Categories {
		f.Categories = append(f.Categories, string(c))
	}
	for _, a := range domain.Audiences {
		f.Audiences = append(f.Audiences, string(a))
	}

	brands := map[string]struct{}{}
	tags := map[string]struct{}{}
	for _, p := range products {
		if p.Brand != "" {
			brands[p.Brand] = struct{}{}
		}
		for _, t := range p.Tags {
			if _, seen := tags[t]; !seen && len(f.Tags) < facetTagMax {
				tags[t] = struct{}{}
				f.Tags = append(f.Tags, t)
			}
		}
	}
	for b := range brands {
		f.Brands = append(f.Brands, b)
	}
	sort.Strings(f.Brands)
	return f
}

type HomeSections struct {
	BannerTitle    string           `json:"banner_title"`
	BannerSubtitle string           `json:"banner_subtitle"`
	New            []domain.Product `json:"new_products"`
	Popular        []domain.Product `json:"popular_products"`
}

// BuildHomeSections resolves the curated lists in curated order and silently
// drops IDs that are no longer in the catalog.
func BuildHomeSections(products []domain.Product, content domain.HomePageContent) HomeSections {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	resolve := func(ids []string) []domain.Product {
		out := []domain.Product{}
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				out = append(out, p)
			}
		}
		return out
	}
	return HomeSections{
		BannerTitle:    content.BannerTitle,
		BannerSubtitle: content.BannerSubtitle,
		New:            resolve(content.NewProductIDs),
		Popular:        resolve(content.PopularProductIDs),
	}
}

// Listing filters then sorts.
func Listing(products []domain.Product, sel Selection, key SortKey) []domain.Product {
	return Sort(Filter(products, sel), key)
}
