package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DraftVersion is bumped whenever the editable field set changes.
const DraftVersion = 1

var ErrInvalidDraft = errors.New("invalid product draft")

// ProductDraft is the admin form shape. It carries only the fields an admin
// may edit; identifiers, timestamps and rating aggregates belong to the server.
type ProductDraft struct {
	Version     int              `json:"version"`
	Name        string           `json:"name"`
	Brand       string           `json:"brand"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	ImageURL    string           `json:"image_url"`
	Category    Category         `json:"category"`
	Audience    Audience         `json:"audience"`
	Tags        []string         `json:"tags"`
	Description string           `json:"description"`
	Ingredients []string         `json:"ingredients"`
	Stock       int              `json:"stock"`
}

func DraftFromProduct(p Product) ProductDraft {
	d := ProductDraft{
		Version:     DraftVersion,
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Audience:    p.Audience,
		Tags:        append([]string(nil), p.Tags...),
		Description: p.Description,
		Ingredients: append([]string(nil), p.Ingredients...),
		Stock:       p.Stock,
	}
	if p.SalePrice != nil {
		sp := *p.SalePrice
		d.SalePrice = &sp
	}
	return d
}

// Normalize trims text fields, lowercases tags and drops empty list entries.
func (d ProductDraft) Normalize() ProductDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Brand = strings.TrimSpace(d.Brand)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	d.Description = strings.TrimSpace(d.Description)
	d.Tags = cleanList(d.Tags, true)
	d.Ingredients = cleanList(d.Ingredients, false)
	return d
}

func (d ProductDraft) Validate() error {
	if d.Version != DraftVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidDraft, d.Version)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidDraft)
	}
	if strings.TrimSpace(d.Brand) == "" {
		return fmt.Errorf("%w: brand required", ErrInvalidDraft)
	}
	if d.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidDraft)
	}
	if d.SalePrice != nil && d.SalePrice.IsNegative() {
		return fmt.Errorf("%w: sale price must be >= 0", ErrInvalidDraft)
	}
	if d.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", ErrInvalidDraft)
	}
	if !d.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidDraft, d.Category)
	}
	if !d.Audience.Valid() {
		return fmt.Errorf("%w: unknown audience %q", ErrInvalidDraft, d.Audience)
	}
	return nil
}

// Apply copies the editable fields onto p and leaves server-owned fields alone.
func (d ProductDraft) Apply(p Product) Product {
	p.Name = d.Name
	p.Brand = d.Brand
	p.Price = d.Price
	p.SalePrice = nil
	if d.SalePrice != nil {
		sp := *d.SalePrice
		p.SalePrice = &sp
	}
	p.ImageURL = d.ImageURL
	p.Category = d.Category
	p.Audience = d.Audience
	p.Tags = append([]string(nil), d.Tags...)
	p.Description = d.Description
	p.Ingredients = append([]string(nil), d.Ingredients...)
	p.Stock = d.Stock
	return p
}

func cleanList(in []string, lower bool) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if lower {
			s = strings.ToLower(s)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
