package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Users    UserRepository
	Products ProductRepository
	Variants VariantRepository
	Carts    CartRepository
	Orders   OrderRepository
}

func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:    NewGormUserRepository(db),
		Products: NewGormProductRepository(db),
		Variants: NewGormVariantRepository(db),
		Carts:    NewGormCartRepository(db),
		Orders:   NewGormOrderRepository(db),
	}
}

// Transactor runs fn against repositories bound to a single transaction.
// Returning an error from fn rolls everything back.
type Transactor interface {
	Transaction(ctx context.Context, fn func(repos Repositories) error) error
}

type GormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) Transactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) Transaction(ctx context.Context, fn func(repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepositories(tx))
	})
}
