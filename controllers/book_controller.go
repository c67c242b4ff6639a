package controllers

import (
	"context"
	"net/http"

	"github.com/AbdelrahmanBadr7422/plot-twist-backend/cache"
	apperrors "github.com/AbdelrahmanBadr7422/plot-twist-backend/common/errors"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IBookService is the service surface the controller needs.
type IBookService interface {
	GetBook(ctx context.Context, id uuid.UUID) (*models.Book, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	CreateBook(ctx context.Context, req *services.CreateBookRequest) (*models.Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, req *services.UpdateBookRequest) (*models.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
}

type BookController struct {
	bookService IBookService
	bookCache   *cache.BookCache
}

func NewBookController(bookService IBookService, bookCache *cache.BookCache) *BookController {
	return &BookController{bookService: bookService, bookCache: bookCache}
}

// ListBooks returns the full catalog, cache-first
func (bc *BookController) ListBooks(c *gin.Context) {
	if books, ok := bc.bookCache.GetBookList(c.Request.Context()); ok {
		c.JSON(http.StatusOK, gin.H{"books": books, "source": "cache"})
		return
	}

	books, err := bc.bookService.ListBooks(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	bc.bookCache.SetBookListAsync(books)
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// GetBook returns a single book, cache-first
func (bc *BookController) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID format"})
		return
	}

	if book, ok := bc.bookCache.GetBook(c.Request.Context(), id.String()); ok {
		c.JSON(http.StatusOK, gin.H{"book": book, "source": "cache"})
		return
	}

	book, err := bc.bookService.GetBook(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	bc.bookCache.SetBookAsync(id.String(), book)
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// CreateBook adds a book to the catalog (admin only)
func (bc *BookController) CreateBook(c *gin.Context) {
	var req services.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	book, err := bc.bookService.CreateBook(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	bc.bookCache.InvalidateBook(c.Request.Context(), book.ID.String())
	c.JSON(http.StatusCreated, gin.H{"book": book})
}

// UpdateBook edits catalog fields (admin only)
func (bc *BookController) UpdateBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID format"})
		return
	}

	var req services.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	book, err := bc.bookService.UpdateBook(c.Request.Context(), id, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	bc.bookCache.InvalidateBook(c.Request.Context(), id.String())
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// DeleteBook removes a book from the catalog (admin only)
func (bc *BookController) DeleteBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID format"})
		return
	}

	if err := bc.bookService.DeleteBook(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	bc.bookCache.InvalidateBook(c.Request.Context(), id.String())
	c.JSON(http.StatusOK, gin.H{"message": "book deleted"})
}
