package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

func mk(id, brand, price string, tags ...string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Item " + id,
		Brand:    brand,
		Price:    decimal.RequireFromString(price),
		Category: domain.CategoryPerfume,
		Audience: domain.AudienceWomen,
		Tags:     tags,
	}
}

func ids(ps []domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter_Brand(t *testing.T) {
	ps := []domain.Product{mk("1", "A", "1", "floral"), mk("2", "B", "1", "citrus")}

	assert.Equal(t, []string{"1"}, ids(Filter(ps, Selection{"Marca": {"A"}})))
	assert.Equal(t, []string{"1", "2"}, ids(Filter(ps, Selection{})))
	assert.Equal(t, []string{"1", "2"}, ids(Filter(ps, Selection{"Marca": {}})))
}

func TestFilter_AndAcrossOrWithin(t *testing.T) {
	men := mk("3", "A", "1", "woody")
	men.Audience = domain.AudienceMen
	hair := mk("4", "B", "1", "floral")
	hair.Category = domain.CategoryHair
	ps := []domain.Product{mk("1", "A", "1", "floral"), mk("2", "B", "1", "citrus"), men, hair}

	got := Filter(ps, Selection{"brand": {"A", "B"}, "Aroma": {"Floral"}})
	assert.Equal(t, []string{"1", "4"}, ids(got))

	got = Filter(ps, Selection{"Público": {"Men"}})
	assert.Equal(t, []string{"3"}, ids(got))

	got = Filter(ps, Selection{"CATEGORÍA": {"Hair"}, "aroma": {"floral"}})
	assert.Equal(t, []string{"4"}, ids(got))
}

func TestSort(t *testing.T) {
	ps := []domain.Product{mk("10", "A", "10"), mk("30", "A", "30"), mk("20", "A", "20")}

	assert.Equal(t, []string{"30", "20", "10"}, ids(Sort(ps, SortPriceDesc)))
	assert.Equal(t, []string{"10", "20", "30"}, ids(Sort(ps, SortPriceAsc)))
	assert.Equal(t, []string{"10", "30", "20"}, ids(Sort(ps, SortDefault)))
	assert.Equal(t, []string{"10", "30", "20"}, ids(Sort(ps, "bogus")))
	assert.Equal(t, []string{"10", "30", "20"}, ids(ps), "input must not be reordered")
}

func TestSort_PriceUsesBasePrice(t *testing.T) {
	cheapSale := mk("a", "A", "50")
	sale := decimal.RequireFromString("5")
	cheapSale.SalePrice = &sale
	ps := []domain.Product{cheapSale, mk("b", "A", "20")}

	assert.Equal(t, []string{"b", "a"}, ids(Sort(ps, SortPriceAsc)))
}

func TestSort_Rating(t *testing.T) {
	a, b, c := mk("a", "A", "1"), mk("b", "A", "1"), mk("c", "A", "1")
	a.Rating, b.Rating, c.Rating = 3.5, 4.9, 1
	assert.Equal(t, []string{"b", "a", "c"}, ids(Sort([]domain.Product{a, b, c}, SortRatingDesc)))
}

func TestSearch(t *testing.T) {
	ps := []domain.Product{mk("1", "Chanel", "1", "floral"), mk("2", "Dior", "1", "citrus")}
	ps[1].Description = "Fresh CITRUS notes"

	assert.Equal(t, []string{"1"}, ids(Search(ps, "chan")))
	assert.Equal(t, []string{"2"}, ids(Search(ps, "Citrus")))
	assert.Equal(t, []string{"1", "2"}, ids(Search(ps, "perfume")))
	assert.Empty(t, Search(ps, "  "))
}

func TestOffersAndGroups(t *testing.T) {
	sale := decimal.RequireFromString("5")
	inert := decimal.RequireFromString("50")
	a, b, c := mk("a", "A", "10"), mk("b", "A", "10"), mk("c", "A", "10")
	a.SalePrice = &sale
	b.SalePrice = &inert
	c.Audience = domain.AudienceGirls
	c.Category = domain.CategoryClothing
	ps := []domain.Product{a, b, c}

	assert.Equal(t, []string{"a"}, ids(Offers(ps)))
	assert.Equal(t, []string{"c"}, ids(ByAudience(ps, domain.AudienceGirls)))
	assert.Equal(t, []string{"a", "b"}, ids(ByCategory(ps, domain.CategoryPerfume)))
}

func TestSimilar(t *testing.T) {
	ps := []domain.Product{}
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		ps = append(ps, mk(id, "A", "1"))
	}
	other := mk("x", "A", "1")
	other.Category = domain.CategoryHair
	ps = append(ps, other)

	got := Similar(ps, ps[0], SimilarLimit)
	assert.Equal(t, []string{"2", "3", "4", "5"}, ids(got))
	assert.Empty(t, Similar(ps, other, SimilarLimit))
}

func TestBuildFacets(t *testing.T) {
	ps := []domain.Product{mk("1", "Dior", "1", "floral", "citrus"), mk("2", "Chanel", "1", "floral")}
	f := BuildFacets(ps)

	assert.Equal(t, []string{"Chanel", "Dior"}, f.Brands)
	assert.Equal(t, []string{"floral", "citrus"}, f.Tags)
	assert.Len(t, f.Categories, 3)
	assert.Len(t, f.Audiences, 4)
}

func TestBuildHomeSections(t *testing.T) {
	ps := []domain.Product{mk("1", "A", "1"), mk("2", "A", "1"), mk("3", "A", "1")}
	content := domain.HomePageContent{
		BannerTitle:       "Hi",
		NewProductIDs:     []string{"3", "gone", "1"},
		PopularProductIDs: []string{"2"},
	}

	s := BuildHomeSections(ps, content)
	assert.Equal(t, "Hi", s.BannerTitle)
	assert.Equal(t, []string{"3", "1"}, ids(s.New))
	assert.Equal(t, []string{"2"}, ids(s.Popular))
}

func TestListing(t *testing.T) {
	ps := []domain.Product{mk("1", "A", "10"), mk("2", "B", "5"), mk("3", "A", "30")}
	got := Listing(ps, Selection{"Marca": {"A"}}, SortPriceDesc)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"3", "1"}, ids(got))
}
