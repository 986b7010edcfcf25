// Package view derives product listings from the catalog. Nothing here calls
// the backend or mutates its input.
package view

import (
	"strings"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

// Selection maps a filter category name to the values picked in it.
type Selection map[string][]string

type field int

const (
	fieldTag field = iota
	fieldBrand
	fieldCategory
	fieldAudience
)

var categoricalKeys = map[string]field{
	"marca":     fieldBrand,
	"brand":     fieldBrand,
	"categoría": fieldCategory,
	"categoria": fieldCategory,
	"category":  fieldCategory,
	"público":   fieldAudience,
	"publico":   fieldAudience,
	"audience":  fieldAudience,
}

func fieldFor(key string) field {
	if f, ok := categoricalKeys[strings.ToLower(strings.TrimSpace(key))]; ok {
		return f
	}
	return fieldTag
}

// Filter keeps the products that satisfy every category with at least one
// selected value. Values within a category are alternatives.
func Filter(products []domain.Product, sel Selection) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, sel) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p domain.Product, sel Selection) bool {
	for key, values := range sel {
		if len(values) == 0 {
			continue
		}
		f := fieldFor(key)
		ok := false
		for _, v := range values {
			if matchField(p, f, v) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func matchField(p domain.Product, f field, v string) bool {
	switch f {
	case fieldBrand:
		return p.Brand == v
	case fieldCategory:
		return string(p.Category) == v
	case fieldAudience:
		return string(p.Audience) == v
	default:
		return p.HasTag(strings.ToLower(v))
	}
}
