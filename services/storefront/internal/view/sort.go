package view

import (
	"sort"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

type SortKey string

const (
	SortDefault    SortKey = "default"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortRatingDesc SortKey = "rating_desc"
)

var SortKeys = []SortKey{SortDefault, SortPriceAsc, SortPriceDesc, SortRatingDesc}

// Sort returns a sorted copy. Prices compare on the base price; unknown keys
// keep the input order.
func Sort(products []domain.Product, key SortKey) []domain.Product {
	out := append([]domain.Product{}, products...)

	var less func(a, b domain.Product) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b domain.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b domain.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRatingDesc:
		less = func(a, b domain.Product) bool { return a.Rating > b.Rating }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
