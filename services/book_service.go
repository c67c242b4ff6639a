package services

import (
	"context"
	"errors"

	apperrors "github.com/AbdelrahmanBadr7422/plot-twist-backend/common/errors"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateBookRequest struct {
	Title       string  `json:"title" binding:"required"`
	Author      string  `json:"author" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	Description string  `json:"description"`
	CoverImage  string  `json:"coverImage"`
}

type UpdateBookRequest struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Description *string  `json:"description"`
	CoverImage  *string  `json:"coverImage"`
}

type BookService struct {
	bookRepo repository.BookRepository
}

func NewBookService(bookRepo repository.BookRepository) *BookService {
	return &BookService{bookRepo: bookRepo}
}

func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("book %s not found", id)
		}
		return nil, err
	}
	return book, nil
}

func (s *BookService) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.bookRepo.FindAll(ctx)
}

func (s *BookService) CreateBook(ctx context.Context, req *CreateBookRequest) (*models.Book, error) {
	book := &models.Book{
		ID:          uuid.New(),
		Title:       req.Title,
		Author:      req.Author,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		CoverImage:  req.CoverImage,
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, apperrors.Internal("failed to create book", err)
	}
	return book, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, req *UpdateBookRequest) (*models.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Price != nil {
		book.Price = *req.Price
	}
	if req.Stock != nil {
		book.Stock = *req.Stock
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.CoverImage != nil {
		book.CoverImage = *req.CoverImage
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, apperrors.Internal("failed to update book", err)
	}
	return book, nil
}

// DeleteBook removes a book from the catalog. Deletion is rejected while
// order items still reference the book, so historical orders keep their
// snapshots intact.
func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetBook(ctx, id); err != nil {
		return err
	}

	referenced, err := s.bookRepo.HasOrderItems(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return apperrors.InvalidArgument("book %s has existing order items and cannot be deleted", id)
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return apperrors.Internal("failed to delete book", err)
	}
	return nil
}
