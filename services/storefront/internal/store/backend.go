package store

import (
	"context"

	"github.com/Skotchmaster/beauty_shop/pkg/backendclient"
	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

// CatalogBackend is implemented by *backendclient.Client and backendclient.Inert.
type CatalogBackend interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	InsertProduct(ctx context.Context, d domain.ProductDraft) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, d domain.ProductDraft) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	HomeContent(ctx context.Context) (domain.HomePageContent, error)
	SaveHomeContent(ctx context.Context, content domain.HomePageContent) (domain.HomePageContent, error)
}

// SearchBackend is the full-text search of *backendclient.Client. Catalog
// backends without it are searched locally by the caller.
type SearchBackend interface {
	SearchProducts(ctx context.Context, q string, page, size int) (*backendclient.SearchPage, error)
}

// AuthBackend is implemented by *backendclient.AuthClient and backendclient.InertAuth.
type AuthBackend interface {
	Session(ctx context.Context) (*domain.Session, error)
	AccessToken(ctx context.Context) (string, error)
	OnAuthStateChange(fn backendclient.AuthStateListener) func()
	SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context) error
	UpdateUser(ctx context.Context, attrs domain.UserAttributes) (domain.User, error)
}

var (
	_ CatalogBackend = (*backendclient.Client)(nil)
	_ CatalogBackend = backendclient.Inert{}
	_ SearchBackend  = (*backendclient.Client)(nil)
	_ AuthBackend    = (*backendclient.AuthClient)(nil)
	_ AuthBackend    = backendclient.InertAuth{}
)
