package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
	"github.com/yashrajoria/sneakershop/services"
)

func newSessionCartService(db *memDB) (services.SessionCartService, repository.SessionCartStore) {
	store := repository.NewMemorySessionCartStore(0)
	return services.NewSessionCartService(store, db.repos().Products, zap.NewNop()), store
}

func TestNewSessionID(t *testing.T) {
	a := services.NewSessionID()
	b := services.NewSessionID()
	assert.True(t, strings.HasPrefix(a, "session-"))
	assert.NotEqual(t, a, b)
}

func TestSessionCartAdd_DefaultsAndMerges(t *testing.T) {
	db := newMemDB()
	p := db.addProduct("Runner", "120")
	svc, _ := newSessionCartService(db)
	ctx := context.Background()

	item, count, err := svc.Add(ctx, "s1", &models.AddSessionCartItemRequest{ProductID: flex(int64(p.ID)), Quantity: flex(2)})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSize, item.Size)
	assert.Equal(t, models.DefaultColor, item.Color)
	assert.Equal(t, 2, count)

	again, count, err := svc.Add(ctx, "s1", &models.AddSessionCartItemRequest{
		ProductID: flex(int64(p.ID)),
		Quantity:  flex(3),
		Size:      strPtr(models.DefaultSize),
	})
	require.NoError(t, err)
	assert.Equal(t, item.ID, again.ID)
	assert.Equal(t, 5, again.Quantity)
	assert.Equal(t, 5, count)

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestSessionCartAdd_CapsAtMaximum(t *testing.T) {
	db := newMemDB()
	p := db.addProduct("Runner", "120")
	svc, _ := newSessionCartService(db)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "s1", &models.AddSessionCartItemRequest{ProductID: flex(int64(p.ID)), Quantity: flex(6)})
	require.NoError(t, err)
	item, count, err := svc.Add(ctx, "s1", &models.AddSessionCartItemRequest{ProductID: flex(int64(p.ID)), Quantity: flex(7)})
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
	assert.Equal(t, 10, count)
}

func TestSessionCartAdd_DistinctSizeIsNewLine(t *testing.T) {
	db := newMemDB()
	p := db.addProduct("Runner", "120")
	svc, _ := newSessionCartService(db)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "s1", &models.AddSessionCartItemRequest{ProductID: flex(int64(p.ID)), Quantity: flex(1), Size: strPtr("42")})
	require.NoError(t, err)
	_, count, err := svc.Add(ctx, "s1", &models.AddSessionCartItemRequest{ProductID: flex(int64(p.ID)), Quantity: flex(1), Size: strPtr("43")})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, cart, 2)
}

func TestSessionCartAdd_Validation(t *testing.T) {
	db := newMemDB()
	svc, store := newSessionCartService(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *models.AddSessionCartItemRequest
		message string
	}{
		{"zero product", &models.AddSessionCartItemRequest{ProductID: flex(0), Quantity: flex(1)}, "Invalid product id"},
		{"negative product", &models.AddSessionCartItemRequest{ProductID: flex(-4), Quantity: flex(1)}, "Invalid product id"},
		{"zero quantity", &models.AddSessionCartItemRequest{ProductID: flex(1), Quantity: flex(0)}, "Quantity must be between 1 and 10"},
		{"quantity too large", &models.AddSessionCartItemRequest{ProductID: flex(1), Quantity: flex(11)}, "Quantity must be between 1 and 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Add(ctx, "s1", tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, tt.message, apperrors.From(err).Message)
		})
	}

	items, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSessionCartSetQuantity_Clamps(t *testing.T) {
	db := newMemDB()
	p := db.addProduct("Runner", "120")
	svc, store := newSessionCartService(db)
	ctx := context.Background()

	item, _, err := svc.Add(ctx, "s1", &models.AddSessionCartItemRequest{ProductID: flex(int64(p.ID)), Quantity: flex(3)})
	require.NoError(t, err)

	for requested, want := range map[int]int{15: 10, 0: 1, -3: 1, 7: 7} {
		require.NoError(t, svc.SetQuantity(ctx, "s1", item.ID, requested))
		items, err := store.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, want, items[0].Quantity, "requested %d", requested)
	}
}

func TestSessionCartSetQuantity_UnknownItemIsNoop(t *testing.T) {
	db := newMemDB()
	p := db.addProduct("Runner", "120")
	svc, store := newSessionCartService(db)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "s1", &models.AddSessionCartItemRequest{ProductID: flex(int64(p.ID)), Quantity: flex(3)})
	require.NoError(t, err)

	require.NoError(t, svc.SetQuantity(ctx, "s1", "missing", 9))
	items, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestSessionCartRemove_Idempotent(t *testing.T) {
	db := newMemDB()
	p := db.addProduct("Runner", "120")
	q := db.addProduct("Court", "80")
	svc, store := newSessionCartService(db)
	ctx := context.Background()

	first, _, err := svc.Add(ctx, "s1", &models.AddSessionCartItemRequest{ProductID: flex(int64(p.ID)), Quantity: flex(1)})
	require.NoError(t, err)
	_, _, err = svc.Add(ctx, "s1", &models.AddSessionCartItemRequest{ProductID: flex(int64(q.ID)), Quantity: flex(2)})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "s1", first.ID))
	require.NoError(t, svc.Remove(ctx, "s1", first.ID))
	require.NoError(t, svc.Remove(ctx, "unknown-session", first.ID))

	items, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, q.ID, items[0].ProductID)
}

func TestSessionCartGet_Enrichment(t *testing.T) {
	db := newMemDB()
	p := db.addProduct("Runner", "120",
		models.ProductImage{ID: 1, ImageURL: "a.jpg", IsPrimary: true},
		models.ProductImage{ID: 2, ImageURL: "b.jpg", IsPrimary: true},
		models.ProductImage{ID: 3, ImageURL: "c.jpg"},
	)
	broken := db.addProduct("Broken", "50")
	db.failProduct = broken.ID
	svc, store := newSessionCartService(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", []models.SessionCartItem{
		{ID: "a", ProductID: p.ID, Quantity: 1, Size: "42", Color: "Red"},
		{ID: "b", ProductID: 9999, Quantity: 2, Size: models.DefaultSize, Color: models.DefaultColor},
		{ID: "c", ProductID: broken.ID, Quantity: 1, Size: models.DefaultSize, Color: models.DefaultColor},
	}))

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, cart, 3)

	assert.Equal(t, "Runner", cart[0].Product.Name)
	assert.Equal(t, "120", cart[0].Product.BasePrice.String())
	require.Len(t, cart[0].Product.Images, 1)
	assert.Equal(t, "a.jpg", cart[0].Product.Images[0].ImageURL)

	assert.Equal(t, "Product Not Found", cart[1].Product.Name)
	assert.True(t, cart[1].Product.BasePrice.IsZero())
	assert.Empty(t, cart[1].Product.Images)
	assert.Equal(t, 2, cart[1].Quantity)

	assert.Equal(t, "Error Loading Product", cart[2].Product.Name)
}

func TestSessionCartGet_UnknownSessionIsEmpty(t *testing.T) {
	svc, _ := newSessionCartService(newMemDB())

	cart, err := svc.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, cart)
	assert.Empty(t, cart)
}

func TestSessionCartClear(t *testing.T) {
	db := newMemDB()
	p := db.addProduct("Runner", "120")
	svc, _ := newSessionCartService(db)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "s1", &models.AddSessionCartItemRequest{ProductID: flex(int64(p.ID)), Quantity: flex(1)})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "s1"))

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, cart)
}
