package models

import (
	"github.com/google/uuid"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

func (p Product) ToDomain() domain.Product {
	out := domain.Product{
		ID:          p.ID.String(),
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		ImageURL:    p.ImageURL,
		Category:    domain.Category(p.Category),
		Audience:    domain.Audience(p.Audience),
		Tags:        nonNil(p.Tags),
		Description: p.Description,
		Ingredients: nonNil(p.Ingredients),
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
	if p.SalePrice.Valid {
		sp := p.SalePrice.Decimal
		out.SalePrice = &sp
	}
	return out
}

// ApplyDraft copies the editable fields of d onto p.
func (p *Product) ApplyDraft(d domain.ProductDraft) {
	p.Name = d.Name
	p.Brand = d.Brand
	p.Price = d.Price
	p.SalePrice.Valid = d.SalePrice != nil
	if d.SalePrice != nil {
		p.SalePrice.Decimal = *d.SalePrice
	}
	p.ImageURL = d.ImageURL
	p.Category = string(d.Category)
	p.Audience = string(d.Audience)
	p.Tags = nonNil(d.Tags)
	p.Description = d.Description
	p.Ingredients = nonNil(d.Ingredients)
	p.Stock = d.Stock
}

func ProductsToDomain(rows []Product) []domain.Product {
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out
}

func (o Order) ToDomain() domain.Order {
	out := domain.Order{
		ID:          o.ID.String(),
		Total:       o.Total,
		Shipping:    o.Shipping,
		Status:      domain.OrderStatus(o.Status),
		ProviderRef: o.ProviderRef,
		Address: domain.ShippingInfo{
			FullName:   o.Address.FullName,
			Email:      o.Address.Email,
			Address:    o.Address.Address,
			City:       o.Address.City,
			PostalCode: o.Address.PostalCode,
			Country:    o.Address.Country,
		},
		CreatedAt: o.CreatedAt,
		Items:     make([]domain.OrderItem, 0, len(o.Items)),
	}
	if o.UserID != nil {
		out.UserID = o.UserID.String()
	}
	for _, it := range o.Items {
		item := domain.OrderItem{
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
		if it.Product != nil {
			p := it.Product.ToDomain()
			item.Product = &p
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func AddressFromDomain(s domain.ShippingInfo) ShippingAddress {
	return ShippingAddress{
		FullName:   s.FullName,
		Email:      s.Email,
		Address:    s.Address,
		City:       s.City,
		PostalCode: s.PostalCode,
		Country:    s.Country,
	}
}

func (u User) ToDomain() domain.User {
	md := u.Metadata
	if md == nil {
		md = map[string]any{}
	}
	return domain.User{
		ID:        u.ID.String(),
		Email:     u.Email,
		Role:      u.Role,
		Metadata:  md,
		CreatedAt: u.CreatedAt,
	}
}

func ParseID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	return id, err == nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}
