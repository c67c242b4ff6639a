package repository

import (
	"context"

	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookRepository defines the interface for book data access. The stock
// primitives here are the only stock-mutating entry points the order service
// may use; a plain unconditional decrement would reintroduce the overselling
// race the conditional form exists to close.
type BookRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	FindAll(ctx context.Context) ([]models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasOrderItems(ctx context.Context, id uuid.UUID) (bool, error)
	DecrementStockIfAvailable(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}

// GormBookRepository implements BookRepository using GORM
type GormBookRepository struct {
	db *gorm.DB
}

// NewGormBookRepository creates a new instance of GormBookRepository
func NewGormBookRepository(db *gorm.DB) BookRepository {
	return &GormBookRepository{db: db}
}

func (r *GormBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *GormBookRepository) FindAll(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *GormBookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *GormBookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

func (r *GormBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id).Error
}

func (r *GormBookRepository) HasOrderItems(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("book_id = ?", id).Count(&count).Error
	return count > 0, err
}

// DecrementStockIfAvailable atomically decrements a book's stock, conditioned
// on the stock still being sufficient at write time. Returns false when the
// conditional update matched no rows, meaning a concurrent transaction
// consumed the stock since the caller's read.
func (r *GormBookRepository) DecrementStockIfAvailable(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// IncrementStock restores stock unconditionally; adding can never violate the
// non-negative invariant.
func (r *GormBookRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
}
