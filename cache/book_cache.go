package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	BookCachePrefix     = "book:detail:"
	BookListCachePrefix = "books:v:"
	CacheVersionKey     = "books:version"

	DefaultTTL = 5 * time.Minute
)

// BookCache handles all Redis caching for the catalog. List keys carry a
// version number; invalidation bumps the version instead of scanning keys.
// A nil *BookCache is valid and behaves as a permanent miss, so callers need
// no redis in tests or when caching is disabled.
type BookCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewBookCache(rdb *redis.Client) *BookCache {
	return &BookCache{redis: rdb, ttl: DefaultTTL}
}

// GetBook retrieves a cached book by id
func (bc *BookCache) GetBook(ctx context.Context, id string) (*models.Book, bool) {
	if bc == nil {
		return nil, false
	}
	data, err := bc.redis.Get(ctx, BookCachePrefix+id).Result()
	if err != nil {
		return nil, false
	}
	var book models.Book
	if err := json.Unmarshal([]byte(data), &book); err != nil {
		zap.L().Warn("Failed to unmarshal cached book", zap.Error(err))
		return nil, false
	}
	return &book, true
}

// SetBookAsync caches a single book asynchronously
func (bc *BookCache) SetBookAsync(id string, book *models.Book) {
	if bc == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(book)
		if err != nil {
			zap.L().Warn("Failed to marshal book for cache", zap.Error(err), zap.String("book_id", id))
			return
		}
		if err := bc.redis.Set(bgCtx, BookCachePrefix+id, data, bc.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache book", zap.Error(err), zap.String("book_id", id))
		}
	}()
}

// GetBookList retrieves the cached catalog listing
func (bc *BookCache) GetBookList(ctx context.Context) ([]models.Book, bool) {
	if bc == nil {
		return nil, false
	}
	version, err := bc.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	data, err := bc.redis.Get(ctx, bc.listKey(version)).Result()
	if err != nil {
		return nil, false
	}
	var books []models.Book
	if err := json.Unmarshal([]byte(data), &books); err != nil {
		zap.L().Warn("Failed to unmarshal cached book list", zap.Error(err))
		return nil, false
	}
	return books, true
}

// SetBookListAsync caches the catalog listing asynchronously
func (bc *BookCache) SetBookListAsync(books []models.Book) {
	if bc == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := bc.getCacheVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}
		data, err := json.Marshal(books)
		if err != nil {
			zap.L().Warn("Failed to marshal book list for cache", zap.Error(err))
			return
		}
		if err := bc.redis.Set(bgCtx, bc.listKey(version), data, bc.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache book list", zap.Error(err))
		}
	}()
}

// InvalidateBook invalidates the list caches and the specific book entry.
// Called after any catalog edit and after any order-driven stock change.
func (bc *BookCache) InvalidateBook(ctx context.Context, id string) {
	if bc == nil {
		return
	}
	if _, err := bc.redis.Incr(ctx, CacheVersionKey).Result(); err != nil {
		zap.L().Error("Failed to invalidate book list cache", zap.Error(err), zap.String("book_id", id))
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := bc.redis.Del(bgCtx, BookCachePrefix+id).Err(); err != nil {
			zap.L().Warn("Failed to delete book cache", zap.Error(err), zap.String("book_id", id))
		}
	}()
}

func (bc *BookCache) listKey(version int64) string {
	return fmt.Sprintf("%s%d", BookListCachePrefix, version)
}

// getCacheVersion retrieves the current cache version, initializing it on
// first use.
func (bc *BookCache) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := bc.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if err == redis.Nil {
		if err := bc.redis.Set(ctx, CacheVersionKey, 1, 0).Err(); err == nil {
			return 1, nil
		}
	}
	return 0, fmt.Errorf("failed to get cache version: %w", err)
}
