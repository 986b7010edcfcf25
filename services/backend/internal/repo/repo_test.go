package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/beauty_shop/services/backend/internal/models"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/testutil"
)

func TestListProducts_NewestFirst(t *testing.T) {
	db := testutil.OpenDB(t)
	r := &GormRepo{DB: db}
	now := time.Now().UTC()

	old := testutil.SeedProduct(t, db, func(p *models.Product) { p.Name = "old"; p.CreatedAt = now.Add(-time.Hour) })
	fresh := testutil.SeedProduct(t, db, func(p *models.Product) { p.Name = "fresh"; p.CreatedAt = now })

	got, err := r.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, fresh.ID, got[0].ID)
	assert.Equal(t, old.ID, got[1].ID)
	assert.True(t, testutil.Dec("40").Equal(got[0].Price))
	assert.Equal(t, []string{"floral"}, got[0].Tags)
	assert.False(t, got[0].SalePrice.Valid)
}

func TestDeleteProduct_Missing(t *testing.T) {
	r := &GormRepo{DB: testutil.OpenDB(t)}
	err := r.DeleteProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSearchProducts_Like(t *testing.T) {
	db := testutil.OpenDB(t)
	r := &GormRepo{DB: db}
	testutil.SeedProduct(t, db, func(p *models.Product) { p.Name = "Argan Hair Oil"; p.Category = "Hair" })
	testutil.SeedProduct(t, db, func(p *models.Product) { p.Name = "Citrus Splash"; p.Brand = "Sol" })

	total, items, err := r.SearchProducts(context.Background(), "ARGAN", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Argan Hair Oil", items[0].Name)

	total, _, err = r.SearchProducts(context.Background(), "100%", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSettings_Upsert(t *testing.T) {
	r := &GormRepo{DB: testutil.OpenDB(t)}
	ctx := context.Background()

	_, err := r.GetSetting(ctx, "home_content")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, r.PutSetting(ctx, "home_content", `{"a":1}`))
	require.NoError(t, r.PutSetting(ctx, "home_content", `{"a":2}`))

	s, err := r.GetSetting(ctx, "home_content")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, s.Value)
}

func TestOrders_PreloadItemsAndProducts(t *testing.T) {
	db := testutil.OpenDB(t)
	r := &GormRepo{DB: db}
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, nil)
	userID := uuid.New()

	older := models.Order{
		UserID: &userID, Total: testutil.Dec("45"), Shipping: testutil.Dec("5"), Status: "Paid",
		ProviderRef: "ref-1", CreatedAt: time.Now().Add(-time.Hour).UTC(),
		Items: []models.OrderItem{{ProductID: p.ID, Quantity: 1, UnitPrice: testutil.Dec("40")}},
	}
	newer := models.Order{
		UserID: &userID, Total: testutil.Dec("85"), Shipping: testutil.Dec("5"), Status: "Pending",
		ProviderRef: "ref-2", CreatedAt: time.Now().UTC(),
		Items: []models.OrderItem{{ProductID: p.ID, Quantity: 2, UnitPrice: testutil.Dec("40")}},
	}
	require.NoError(t, r.CreateOrder(ctx, &older))
	require.NoError(t, r.CreateOrder(ctx, &newer))

	other := uuid.New()
	require.NoError(t, r.CreateOrder(ctx, &models.Order{UserID: &other, Status: "Paid", ProviderRef: "ref-3"}))

	orders, err := r.ListOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ref-2", orders[0].ProviderRef)
	require.Len(t, orders[0].Items, 1)
	require.NotNil(t, orders[0].Items[0].Product)
	assert.Equal(t, p.Name, orders[0].Items[0].Product.Name)

	byRef, err := r.GetOrderByProviderRef(ctx, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, older.ID, byRef.ID)

	require.NoError(t, r.SetOrderStatus(ctx, byRef.ID, "Failed"))
	byRef, err = r.GetOrderByProviderRef(ctx, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "Failed", byRef.Status)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	r := &GormRepo{DB: testutil.OpenDB(t)}
	ctx := context.Background()

	require.NoError(t, r.CreateUser(ctx, &models.User{Email: "Ana@Shop.test", PasswordHash: "x", Role: "user"}))
	err := r.CreateUser(ctx, &models.User{Email: "ana@shop.test", PasswordHash: "y", Role: "user"})
	assert.ErrorIs(t, err, ErrUserExists)

	u, err := r.GetUserByEmail(ctx, "ANA@shop.test")
	require.NoError(t, err)
	assert.Equal(t, "ana@shop.test", u.Email)
}

func TestRotateRefreshToken_SingleUse(t *testing.T) {
	r := &GormRepo{DB: testutil.OpenDB(t)}
	ctx := context.Background()
	userID := uuid.New()
	exp := time.Now().Add(time.Hour).Unix()

	require.NoError(t, r.AddRefreshToken(ctx, &models.RefreshToken{UserID: userID, TokenHash: "h1", JTI: "j1", ExpiresAt: exp}))

	next := models.RefreshToken{UserID: userID, TokenHash: "h2", JTI: "j2", ExpiresAt: exp}
	require.NoError(t, r.RotateRefreshToken(ctx, "j1", "h1", &next))

	again := models.RefreshToken{UserID: userID, TokenHash: "h3", JTI: "j3", ExpiresAt: exp}
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "j1", "h1", &again), ErrRefreshInvalid)
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "j2", "wrong-hash", &again), ErrRefreshInvalid)

	require.NoError(t, r.RevokeRefreshToken(ctx, "j2"))
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "j2", "h2", &again), ErrRefreshInvalid)
}

func TestDeleteProduct_OrderedProductWithForeignKeysEnforced(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	r := &GormRepo{DB: db}
	ctx := context.Background()

	assert.False(t, db.Migrator().HasConstraint(&models.OrderItem{}, "Product"))

	p := testutil.SeedProduct(t, db, nil)
	userID := uuid.New()
	require.NoError(t, r.CreateOrder(ctx, &models.Order{
		UserID: &userID, Status: "Paid", ProviderRef: "ref-fk",
		Total: testutil.Dec("45"), Shipping: testutil.Dec("5"),
		Items: []models.OrderItem{{ProductID: p.ID, Quantity: 1, UnitPrice: testutil.Dec("40")}},
	}))

	require.NoError(t, r.DeleteProduct(ctx, p.ID))

	orders, err := r.ListOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, p.ID, orders[0].Items[0].ProductID)
	assert.Nil(t, orders[0].Items[0].Product)
	assert.Len(t, orders[0].ToDomain().Items, 1)
}
