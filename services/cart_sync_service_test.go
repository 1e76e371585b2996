package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
	"github.com/yashrajoria/sneakershop/services"
)

func newCartSyncService(db *memDB) (services.CartSyncService, repository.SessionCartStore) {
	store := repository.NewMemorySessionCartStore(0)
	return services.NewCartSyncService(&memTransactor{db}, store, nil, zap.NewNop()), store
}

func TestCartSync_ReplacesExistingCart(t *testing.T) {
	db := newMemDB()
	userID := uuid.New()
	other := db.addProduct("Old", "10")
	oldVariant := db.addVariant(other.ID, "10", 5)
	db.addCartRow(userID, oldVariant.ID, 4)

	p := db.addProduct("Runner", "120")
	first := db.addVariant(p.ID, "120", 10)
	db.addVariant(p.ID, "125", 10)

	svc, _ := newCartSyncService(db)
	cart, synced, err := svc.Sync(context.Background(), userID, []models.SyncCartItem{
		{ID: "x", ProductID: models.FlexInt(p.ID), Quantity: 3, Size: "44", Color: "Blue"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	require.Len(t, cart, 1)
	assert.Equal(t, first.ID, cart[0].ProductVariantID)
	assert.Equal(t, 3, cart[0].Quantity)
	assert.Len(t, db.cartOf(userID), 1)
}

func TestCartSync_EmptyListClearsCart(t *testing.T) {
	db := newMemDB()
	userID := uuid.New()
	p := db.addProduct("Runner", "120")
	v := db.addVariant(p.ID, "120", 10)
	db.addCartRow(userID, v.ID, 2)

	svc, _ := newCartSyncService(db)
	cart, synced, err := svc.Sync(context.Background(), userID, []models.SyncCartItem{}, "")
	require.NoError(t, err)
	assert.Equal(t, 0, synced)
	assert.NotNil(t, cart)
	assert.Empty(t, cart)
	assert.Empty(t, db.cartOf(userID))
}

func TestCartSync_FoldsItemsOnSameVariant(t *testing.T) {
	db := newMemDB()
	userID := uuid.New()
	p := db.addProduct("Runner", "120")
	v := db.addVariant(p.ID, "120", 10)

	svc, _ := newCartSyncService(db)
	cart, synced, err := svc.Sync(context.Background(), userID, []models.SyncCartItem{
		{ID: "a", ProductID: models.FlexInt(p.ID), Quantity: 6, Size: "42"},
		{ID: "b", ProductID: models.FlexInt(p.ID), Quantity: 7, Size: "43"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, synced)
	require.Len(t, cart, 1)
	assert.Equal(t, v.ID, cart[0].ProductVariantID)
	assert.Equal(t, 10, cart[0].Quantity)
}

func TestCartSync_SkipsUnknownProducts(t *testing.T) {
	db := newMemDB()
	userID := uuid.New()
	p := db.addProduct("Runner", "120")
	db.addVariant(p.ID, "120", 10)

	svc, _ := newCartSyncService(db)
	cart, synced, err := svc.Sync(context.Background(), userID, []models.SyncCartItem{
		{ID: "a", ProductID: 0, Quantity: 1},
		{ID: "b", ProductID: -2, Quantity: 1},
		{ID: "c", ProductID: 424242, Quantity: 1},
		{ID: "d", ProductID: models.FlexInt(p.ID), Quantity: 15},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	require.Len(t, cart, 1)
	assert.Equal(t, 10, cart[0].Quantity)
}

func TestCartSync_CreatesVirtualVariant(t *testing.T) {
	db := newMemDB()
	userID := uuid.New()
	p := db.addProduct("Slide", "80")

	svc, _ := newCartSyncService(db)
	cart, synced, err := svc.Sync(context.Background(), userID, []models.SyncCartItem{
		{ID: "a", ProductID: models.FlexInt(p.ID), Quantity: 2, Size: "42.5"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	require.Len(t, cart, 1)

	variant := db.variants[cart[0].ProductVariantID]
	assert.Equal(t, p.ID, variant.ProductID)
	assert.Equal(t, 100, variant.StockQuantity)
	assert.True(t, strings.HasPrefix(variant.SKU, "VIRTUAL-"))
	require.NotNil(t, variant.Size)
	assert.Equal(t, 42.5, *variant.Size)
	require.NotNil(t, variant.Color)
	assert.Equal(t, models.DefaultColor, *variant.Color)
	assert.Equal(t, "80", variant.UnitPrice().String())
}

func TestCartSync_VirtualVariantWithoutNumericSize(t *testing.T) {
	db := newMemDB()
	p := db.addProduct("Cap", "")

	svc, _ := newCartSyncService(db)
	cart, _, err := svc.Sync(context.Background(), uuid.New(), []models.SyncCartItem{
		{ID: "a", ProductID: models.FlexInt(p.ID), Quantity: 1, Size: models.DefaultSize, Color: "Black"},
	}, "")
	require.NoError(t, err)
	require.Len(t, cart, 1)

	variant := db.variants[cart[0].ProductVariantID]
	assert.Nil(t, variant.Size)
	assert.Equal(t, "Black", *variant.Color)
	assert.True(t, variant.UnitPrice().IsZero())
}

func TestCartSync_ClearsSessionCart(t *testing.T) {
	db := newMemDB()
	p := db.addProduct("Runner", "120")
	db.addVariant(p.ID, "120", 10)
	svc, store := newCartSyncService(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "session-1", []models.SessionCartItem{{ID: "a", ProductID: p.ID, Quantity: 1}}))

	_, _, err := svc.Sync(ctx, uuid.New(), []models.SyncCartItem{{ID: "a", ProductID: models.FlexInt(p.ID), Quantity: 1}}, "session-1")
	require.NoError(t, err)

	items, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartSync_RollsBackOnFailure(t *testing.T) {
	db := newMemDB()
	userID := uuid.New()
	p := db.addProduct("Runner", "120")
	v := db.addVariant(p.ID, "120", 10)
	db.addCartRow(userID, v.ID, 4)
	broken := db.addProduct("Broken", "10")
	db.failProduct = broken.ID

	svc, store := newCartSyncService(db)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "session-1", []models.SessionCartItem{{ID: "a", ProductID: p.ID, Quantity: 1}}))

	_, _, err := svc.Sync(ctx, userID, []models.SyncCartItem{
		{ID: "a", ProductID: models.FlexInt(p.ID), Quantity: 1},
		{ID: "b", ProductID: models.FlexInt(broken.ID), Quantity: 1},
	}, "session-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)

	rows := db.cartOf(userID)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Quantity)

	items, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
