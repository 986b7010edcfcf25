package domain

type HomePageContent struct {
	BannerTitle       string   `json:"banner_title"`
	BannerSubtitle    string   `json:"banner_subtitle"`
	NewProductIDs     []string `json:"new_product_ids"`
	PopularProductIDs []string `json:"popular_product_ids"`
}

func DefaultHomePageContent() HomePageContent {
	return HomePageContent{
		BannerTitle:       "Authentic Beauty",
		BannerSubtitle:    "Discover our premium collection of perfumes, hair care and cosmetics from the best brands in the world.",
		NewProductIDs:     []string{},
		PopularProductIDs: []string{},
	}
}

// Without returns a copy with id removed from both curated lists.
func (c HomePageContent) Without(id string) HomePageContent {
	c.NewProductIDs = removeID(c.NewProductIDs, id)
	c.PopularProductIDs = removeID(c.PopularProductIDs, id)
	return c
}

func (c HomePageContent) References(id string) bool {
	for _, v := range c.NewProductIDs {
		if v == id {
			return true
		}
	}
	for _, v := range c.PopularProductIDs {
		if v == id {
			return true
		}
	}
	return false
}

func (c HomePageContent) Clone() HomePageContent {
	c.NewProductIDs = append([]string{}, c.NewProductIDs...)
	c.PopularProductIDs = append([]string{}, c.PopularProductIDs...)
	return c
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
