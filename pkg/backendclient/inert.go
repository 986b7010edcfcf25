package backendclient

import (
	"context"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

// Inert stands in for the backend when no URL or key is configured. Reads
// return empty data and writes fail with ErrUnconfigured.
type Inert struct{}

func (Inert) ListProducts(context.Context) ([]domain.Product, error) {
	return []domain.Product{}, nil
}

func (Inert) InsertProduct(context.Context, domain.ProductDraft) (domain.Product, error) {
	return domain.Product{}, ErrUnconfigured
}

func (Inert) UpdateProduct(context.Context, string, domain.ProductDraft) (domain.Product, error) {
	return domain.Product{}, ErrUnconfigured
}

func (Inert) DeleteProduct(context.Context, string) error { return ErrUnconfigured }

func (Inert) HomeContent(context.Context) (domain.HomePageContent, error) {
	return domain.DefaultHomePageContent(), nil
}

func (Inert) SaveHomeContent(context.Context, domain.HomePageContent) (domain.HomePageContent, error) {
	return domain.HomePageContent{}, ErrUnconfigured
}

func (Inert) ListOrders(context.Context) ([]domain.Order, error) {
	return []domain.Order{}, nil
}

func (Inert) CreateOrder(context.Context, domain.CreateOrderRequest) (domain.CreateOrderResponse, error) {
	return domain.CreateOrderResponse{}, ErrUnconfigured
}

func (Inert) CaptureOrder(context.Context, string) (domain.CaptureOrderResponse, error) {
	return domain.CaptureOrderResponse{}, ErrUnconfigured
}

// InertAuth never has a session.
type InertAuth struct{}

func (InertAuth) Session(context.Context) (*domain.Session, error) { return nil, nil }

func (InertAuth) AccessToken(context.Context) (string, error) { return "", nil }

func (InertAuth) OnAuthStateChange(AuthStateListener) func() { return func() {} }

func (InertAuth) SignUp(context.Context, domain.SignUpRequest) (*domain.Session, error) {
	return nil, ErrUnconfigured
}

func (InertAuth) SignInWithPassword(context.Context, string, string) (*domain.Session, error) {
	return nil, ErrUnconfigured
}

func (InertAuth) SignOut(context.Context) error { return nil }

func (InertAuth) UpdateUser(context.Context, domain.UserAttributes) (domain.User, error) {
	return domain.User{}, ErrUnconfigured
}
