package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/beauty_shop/pkg/backendclient"
	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

func product(id, price string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Brand:    "Brand",
		Price:    decimal.RequireFromString(price),
		Category: domain.CategoryPerfume,
		Audience: domain.AudienceWomen,
	}
}

func withSale(p domain.Product, sale string) domain.Product {
	s := decimal.RequireFromString(sale)
	p.SalePrice = &s
	return p
}

type fakeCatalog struct {
	mu       sync.Mutex
	products []domain.Product
	content  domain.HomePageContent
	saved    []domain.HomePageContent
	failList error
	failSave error
	failOps  error
	// block, when set, holds UpdateProduct until it is closed.
	block   chan struct{}
	entered chan struct{}
	// saveGate, when set, holds SaveHomeContent until it is closed.
	saveGate    chan struct{}
	saveEntered chan struct{}
}

func (f *fakeCatalog) ListProducts(context.Context) ([]domain.Product, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	return append([]domain.Product{}, f.products...), nil
}

func (f *fakeCatalog) InsertProduct(_ context.Context, d domain.ProductDraft) (domain.Product, error) {
	if f.failOps != nil {
		return domain.Product{}, f.failOps
	}
	p := d.Apply(domain.Product{ID: uuid.NewString(), CreatedAt: time.Now()})
	return p, nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, id string, d domain.ProductDraft) (domain.Product, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if f.failOps != nil {
		return domain.Product{}, f.failOps
	}
	return d.Apply(domain.Product{ID: id}), nil
}

func (f *fakeCatalog) DeleteProduct(context.Context, string) error {
	return f.failOps
}

func (f *fakeCatalog) HomeContent(context.Context) (domain.HomePageContent, error) {
	return f.content, nil
}

func (f *fakeCatalog) SaveHomeContent(_ context.Context, c domain.HomePageContent) (domain.HomePageContent, error) {
	if f.saveGate != nil {
		f.saveEntered <- struct{}{}
		<-f.saveGate
	}
	if f.failSave != nil {
		return domain.HomePageContent{}, f.failSave
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, c)
	f.content = c
	return c, nil
}

type fakeAuth struct {
	mu        sync.Mutex
	session   *domain.Session
	listeners []backendclient.AuthStateListener
	signUps   []domain.SignUpRequest
	fail      error
	updated   domain.User
}

func (f *fakeAuth) notify(e domain.AuthEvent, s *domain.Session) {
	f.mu.Lock()
	f.session = s
	fns := append([]backendclient.AuthStateListener{}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(e, s)
	}
}

func (f *fakeAuth) Session(context.Context) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *fakeAuth) AccessToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return "", nil
	}
	return f.session.AccessToken, nil
}

func (f *fakeAuth) OnAuthStateChange(fn backendclient.AuthStateListener) func() {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.listeners = nil
		f.mu.Unlock()
	}
}

func (f *fakeAuth) SignUp(_ context.Context, req domain.SignUpRequest) (*domain.Session, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.signUps = append(f.signUps, req)
	s := &domain.Session{AccessToken: "tok", User: domain.User{ID: "u1", Email: req.Email, Metadata: req.Data}}
	f.notify(domain.EventSignedIn, s)
	return s, nil
}

func (f *fakeAuth) SignInWithPassword(_ context.Context, email, _ string) (*domain.Session, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	s := &domain.Session{AccessToken: "tok", User: domain.User{ID: "u1", Email: email}}
	f.notify(domain.EventSignedIn, s)
	return s, nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.notify(domain.EventSignedOut, nil)
	return nil
}

func (f *fakeAuth) UpdateUser(context.Context, domain.UserAttributes) (domain.User, error) {
	if f.fail != nil {
		return domain.User{}, f.fail
	}
	return f.updated, nil
}
