package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

type note struct {
	ID   uint
	Body string
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "  ", logger.Silent)
	require.ErrorIs(t, err, ErrEmptyDSN)
}

func TestOpen_SQLiteMemory(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, SQLitePrefix+":memory:", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(ctx, db, &note{}))
	require.NoError(t, db.Create(&note{Body: "hi"}).Error)

	var got note
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "hi", got.Body)
	assert.NoError(t, Ping(ctx, db))
}

func TestDialector_PicksDriver(t *testing.T) {
	d, p := dialector("sqlite:shop.db")
	assert.Equal(t, "sqlite", d.Name())
	assert.Equal(t, 1, p.maxOpen)

	d, p = dialector("postgres://u:p@localhost/db")
	assert.Equal(t, "postgres", d.Name())
	assert.True(t, p.prepare)
}
