package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"          json:"id"`
	Name        string              `gorm:"not null"                      json:"name"`
	Brand       string              `gorm:"not null;index"                json:"brand"`
	Price       decimal.Decimal     `gorm:"type:decimal(10,2);not null"   json:"price"`
	SalePrice   decimal.NullDecimal `gorm:"type:decimal(10,2)"            json:"sale_price"`
	Rating      float64             `gorm:"not null;default:0"            json:"rating"`
	ReviewCount int                 `gorm:"not null;default:0"            json:"review_count"`
	ImageURL    string              `gorm:"not null;default:''"           json:"image_url"`
	Category    string              `gorm:"not null;index"                json:"category"`
	Audience    string              `gorm:"not null;index"                json:"audience"`
	Tags        []string            `gorm:"serializer:json"               json:"tags"`
	Description string              `gorm:"type:text"                     json:"description"`
	Ingredients []string            `gorm:"serializer:json"               json:"ingredients"`
	Stock       int                 `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CreatedAt   time.Time           `gorm:"index"                         json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type ShippingAddress struct {
	FullName   string `gorm:"not null"`
	Email      string `gorm:"not null"`
	Address    string `gorm:"not null"`
	City       string `gorm:"not null"`
	PostalCode string `gorm:"not null"`
	Country    string
}

type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      *uuid.UUID      `gorm:"type:uuid;index"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Shipping    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status      string          `gorm:"not null;index"`
	ProviderRef string          `gorm:"not null;uniqueIndex"`
	Address     ShippingAddress `gorm:"embedded;embeddedPrefix:ship_"`
	CreatedAt   time.Time       `gorm:"index"`
	UpdatedAt   time.Time
	Items       []OrderItem `gorm:"foreignKey:OrderID"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Quantity  int             `gorm:"not null;check:quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email        string         `gorm:"uniqueIndex;not null"`
	PasswordHash string         `gorm:"not null"`
	Role         string         `gorm:"not null"`
	Metadata     map[string]any `gorm:"serializer:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	TokenHash string    `gorm:"uniqueIndex;not null"`
	JTI       string    `gorm:"uniqueIndex;not null"`
	ExpiresAt int64     `gorm:"not null"`
	Revoked   bool      `gorm:"default:false"`
}

// Setting is a JSON document stored under a well-known key.
type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func All() []any {
	return []any{&Product{}, &Order{}, &OrderItem{}, &User{}, &RefreshToken{}, &Setting{}}
}
