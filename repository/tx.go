package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repos bundles the transaction-scoped repositories handed to a transactional
// closure.
type Repos struct {
	Orders OrderRepository
	Books  BookRepository
}

// TxManager runs a function atomically: every repository operation inside the
// closure commits together or not at all. Returning an error from the closure
// rolls back all of its writes.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(repos Repos) error) error
}

// GormTxManager implements TxManager on a gorm connection.
type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) WithTransaction(ctx context.Context, fn func(repos Repos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos{
			Orders: NewGormOrderRepository(tx),
			Books:  NewGormBookRepository(tx),
		})
	})
}
