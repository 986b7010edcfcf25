// Package testutil holds fixtures shared by the backend tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgdb "github.com/Skotchmaster/beauty_shop/pkg/db"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/models"
)

// OpenDB returns a migrated in-memory SQLite database private to t.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	db, err := pkgdb.Open(ctx, pkgdb.SQLitePrefix+":memory:", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	require.NoError(t, pkgdb.Migrate(ctx, db, models.All()...))
	return db
}

func Dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// SeedProduct inserts a product with sensible defaults; mutate overrides them.
func SeedProduct(t *testing.T, db *gorm.DB, mutate func(p *models.Product)) models.Product {
	t.Helper()
	p := models.Product{
		Name:        "Rose Eau de Parfum",
		Brand:       "Lumi",
		Price:       Dec("40.00"),
		Category:    "Perfume",
		Audience:    "Women",
		Tags:        []string{"floral"},
		Ingredients: []string{"alcohol"},
		Stock:       10,
		CreatedAt:   time.Now().UTC(),
	}
	if mutate != nil {
		mutate(&p)
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

type Event struct {
	Topic string
	Key   string
	Value any
}

// Recorder is an in-memory event publisher.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{Topic: topic, Key: key, Value: event})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Last() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Events) == 0 {
		return Event{}
	}
	return r.Events[len(r.Events)-1]
}
