package services_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yashrajoria/sneakershop/models"
	"github.com/yashrajoria/sneakershop/repository"
)

var errStorage = errors.New("storage unavailable")

// memDB is an in-memory stand-in for the relational store. Transactions snapshot
// the whole state and restore it when the callback fails.
type memDB struct {
	users    map[uuid.UUID]models.User
	products map[uint]models.Product
	variants map[uint]models.ProductVariant
	cart     []models.CartItem
	orders   []models.Order
	nextID   uint

	failProduct   uint
	failDecrement uint
	lastFilter    repository.ProductFilter
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[uuid.UUID]models.User{},
		products: map[uint]models.Product{},
		variants: map[uint]models.ProductVariant{},
		nextID:   100,
	}
}

func (db *memDB) id() uint {
	db.nextID++
	return db.nextID
}

func (db *memDB) clone() *memDB {
	c := *db
	c.users = make(map[uuid.UUID]models.User, len(db.users))
	for k, v := range db.users {
		c.users[k] = v
	}
	c.products = make(map[uint]models.Product, len(db.products))
	for k, v := range db.products {
		c.products[k] = v
	}
	c.variants = make(map[uint]models.ProductVariant, len(db.variants))
	for k, v := range db.variants {
		c.variants[k] = v
	}
	c.cart = append([]models.CartItem(nil), db.cart...)
	c.orders = append([]models.Order(nil), db.orders...)
	return &c
}

func (db *memDB) repos() repository.Repositories {
	return repository.Repositories{
		Users:    &memUserRepo{db},
		Products: &memProductRepo{db},
		Variants: &memVariantRepo{db},
		Carts:    &memCartRepo{db},
		Orders:   &memOrderRepo{db},
	}
}

func (db *memDB) addProduct(name string, basePrice string, images ...models.ProductImage) models.Product {
	p := models.Product{ID: db.id(), Name: name, IsActive: true, Images: images}
	if basePrice != "" {
		price := decimal.RequireFromString(basePrice)
		p.BasePrice = &price
	}
	db.products[p.ID] = p
	return p
}

func (db *memDB) addVariant(productID uint, price string, stock int) models.ProductVariant {
	v := models.ProductVariant{ID: db.id(), ProductID: productID, StockQuantity: stock, SKU: "SKU-" + uuid.NewString()}
	if price != "" {
		p := decimal.RequireFromString(price)
		v.Price = &p
	}
	db.variants[v.ID] = v
	return v
}

func (db *memDB) addCartRow(userID uuid.UUID, variantID uint, quantity int) {
	db.cart = append(db.cart, models.CartItem{ID: db.id(), UserID: userID, ProductVariantID: variantID, Quantity: quantity})
}

func (db *memDB) stock(variantID uint) int {
	return db.variants[variantID].StockQuantity
}

func (db *memDB) cartOf(userID uuid.UUID) []models.CartItem {
	var out []models.CartItem
	for _, item := range db.cart {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out
}

func (db *memDB) withVariants(p models.Product) models.Product {
	p.Variants = nil
	for _, v := range db.variants {
		if v.ProductID == p.ID {
			p.Variants = append(p.Variants, v)
		}
	}
	sort.Slice(p.Variants, func(i, j int) bool { return p.Variants[i].ID < p.Variants[j].ID })
	return p
}

func (db *memDB) sortedProducts() []models.Product {
	out := make([]models.Product, 0, len(db.products))
	for _, p := range db.products {
		out = append(out, db.withVariants(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memTransactor struct {
	db *memDB
}

func (t *memTransactor) Transaction(_ context.Context, fn func(repos repository.Repositories) error) error {
	snapshot := t.db.clone()
	if err := fn(t.db.repos()); err != nil {
		*t.db = *snapshot
		return err
	}
	return nil
}

type memUserRepo struct{ db *memDB }

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.db.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.db.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memUserRepo) List(context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range r.db.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role models.Role) error {
	u, ok := r.db.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	r.db.users[id] = u
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.db.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.users, id)
	return nil
}

type memProductRepo struct{ db *memDB }

func (r *memProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	r.db.lastFilter = filter
	var out []models.Product
	for _, p := range r.db.sortedProducts() {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uint) (*models.Product, error) {
	p, ok := r.db.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = r.db.withVariants(p)
	return &p, nil
}

func (r *memProductRepo) FindWithVariants(ctx context.Context, id uint) (*models.Product, error) {
	if id == r.db.failProduct {
		return nil, errStorage
	}
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) Create(_ context.Context, product *models.Product) error {
	product.ID = r.db.id()
	r.db.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Update(_ context.Context, product *models.Product) error {
	if _, ok := r.db.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	p := *product
	p.Variants = nil
	r.db.products[product.ID] = p
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.db.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.db.products, id)
	return nil
}

func (r *memProductRepo) ListForInventory(context.Context) ([]models.Product, error) {
	return r.db.sortedProducts(), nil
}

func (r *memProductRepo) Search(_ context.Context, query, _ string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.db.sortedProducts() {
		if query == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Count(context.Context) (int64, error) {
	return int64(len(r.db.products)), nil
}

type memVariantRepo struct{ db *memDB }

func (r *memVariantRepo) FindByID(_ context.Context, id uint) (*models.ProductVariant, error) {
	v, ok := r.db.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r *memVariantRepo) Create(_ context.Context, variant *models.ProductVariant) error {
	variant.ID = r.db.id()
	r.db.variants[variant.ID] = *variant
	return nil
}

func (r *memVariantRepo) SetStock(_ context.Context, id uint, quantity int) (*models.ProductVariant, error) {
	v, ok := r.db.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	v.StockQuantity = quantity
	v.UpdatedAt = time.Now()
	r.db.variants[id] = v
	return &v, nil
}

func (r *memVariantRepo) DecrementStock(_ context.Context, id uint, quantity int) error {
	if id == r.db.failDecrement {
		return errStorage
	}
	v, ok := r.db.variants[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.StockQuantity -= quantity
	r.db.variants[id] = v
	return nil
}

func (r *memVariantRepo) Totals(context.Context) (*repository.VariantTotals, error) {
	var t repository.VariantTotals
	for _, v := range r.db.variants {
		t.Variants++
		t.Stock += int64(v.StockQuantity)
		if v.StockQuantity > 0 && v.StockQuantity < 10 {
			t.LowStock++
		}
		if v.StockQuantity == 0 {
			t.OutOfStock++
		}
	}
	return &t, nil
}

func (r *memVariantRepo) RecentlyUpdated(_ context.Context, since time.Time, limit int) ([]models.ProductVariant, error) {
	var out []models.ProductVariant
	for _, v := range r.db.variants {
		if !v.UpdatedAt.Before(since) {
			out = append(out, v)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memCartRepo struct{ db *memDB }

func (r *memCartRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range r.db.cartOf(userID) {
		if v, ok := r.db.variants[item.ProductVariantID]; ok {
			item.Variant = &v
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCartRepo) Upsert(_ context.Context, item *models.CartItem) error {
	for i := range r.db.cart {
		row := &r.db.cart[i]
		if row.UserID == item.UserID && row.ProductVariantID == item.ProductVariantID {
			row.Quantity = item.Quantity
			item.ID = row.ID
			return nil
		}
	}
	item.ID = r.db.id()
	r.db.cart = append(r.db.cart, *item)
	return nil
}

func (r *memCartRepo) Create(_ context.Context, item *models.CartItem) error {
	for _, row := range r.db.cart {
		if row.UserID == item.UserID && row.ProductVariantID == item.ProductVariantID {
			return gorm.ErrDuplicatedKey
		}
	}
	item.ID = r.db.id()
	r.db.cart = append(r.db.cart, *item)
	return nil
}

func (r *memCartRepo) Delete(_ context.Context, userID uuid.UUID, variantID uint) error {
	for i, row := range r.db.cart {
		if row.UserID == userID && row.ProductVariantID == variantID {
			r.db.cart = append(r.db.cart[:i:i], r.db.cart[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memCartRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	kept := []models.CartItem{}
	for _, row := range r.db.cart {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	r.db.cart = kept
	return nil
}

type memOrderRepo struct{ db *memDB }

func (r *memOrderRepo) Create(_ context.Context, order *models.Order) error {
	order.ID = r.db.id()
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = r.db.id()
		order.Items[i].OrderID = order.ID
	}
	r.db.orders = append(r.db.orders, *order)
	return nil
}

func (r *memOrderRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.db.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	kept := []models.Order{}
	for _, o := range r.db.orders {
		if o.UserID != userID {
			kept = append(kept, o)
		}
	}
	r.db.orders = kept
	return nil
}

type recordingPublisher struct {
	events []models.OrderConfirmedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderConfirmed(_ context.Context, event models.OrderConfirmedEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func flex(n int64) *models.FlexInt {
	v := models.FlexInt(n)
	return &v
}

func strPtr(s string) *string { return &s }
