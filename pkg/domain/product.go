package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryPerfume  Category = "Perfume"
	CategoryHair     Category = "Hair"
	CategoryClothing Category = "Clothing"
)

var Categories = []Category{CategoryPerfume, CategoryHair, CategoryClothing}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

type Audience string

const (
	AudienceWomen Audience = "Women"
	AudienceMen   Audience = "Men"
	AudienceBoys  Audience = "Boys"
	AudienceGirls Audience = "Girls"
)

var Audiences = []Audience{AudienceWomen, AudienceMen, AudienceBoys, AudienceGirls}

func (a Audience) Valid() bool {
	for _, k := range Audiences {
		if k == a {
			return true
		}
	}
	return false
}

// ParseCategory matches case-insensitively.
func ParseCategory(s string) (Category, bool) {
	for _, k := range Categories {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}

func ParseAudience(s string) (Audience, bool) {
	for _, k := range Audiences {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}

type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Brand       string           `json:"brand"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	Rating      float64          `json:"rating"`
	ReviewCount int              `json:"review_count"`
	ImageURL    string           `json:"image_url"`
	Category    Category         `json:"category"`
	Audience    Audience         `json:"audience"`
	Tags        []string         `json:"tags"`
	Description string           `json:"description"`
	Ingredients []string         `json:"ingredients"`
	Stock       int              `json:"stock"`
	CreatedAt   time.Time        `json:"created_at"`
}

// OnSale reports whether the sale price is in effect. A sale price that is
// not strictly below the base price is ignored.
func (p Product) OnSale() bool {
	return p.SalePrice != nil && p.SalePrice.LessThan(p.Price)
}

// ActiveUnitPrice is the price actually charged for one unit.
func (p Product) ActiveUnitPrice() decimal.Decimal {
	if p.OnSale() {
		return *p.SalePrice
	}
	return p.Price
}

func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
