package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/zag-shortener/internal/shortener"
	"go.uber.org/zap"
)

// RedisCacheRepository caches mappings of another Repository in Redis hashes.
// Saves write through and reads fall back to the wrapped store on a miss or
// any cache error.
type RedisCacheRepository struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "url:",
		ttl:    ttl,
		logger: logger,
	}
}

// Save stores a mapping in the underlying store and updates the cache.
func (r *RedisCacheRepository) Save(ctx context.Context, mapping *shortener.Mapping) error {
	if err := r.store.Save(ctx, mapping); err != nil {
		return err
	}

	// Write-through: update cache after successful save
	r.cacheMapping(ctx, mapping)

	return nil
}

// GetByCode retrieves a mapping by its code, checking cache first.
func (r *RedisCacheRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	if mapping, err := r.getFromCache(ctx, code); err == nil {
		return mapping, nil
	}

	mapping, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cacheMapping(ctx, mapping)

	return mapping, nil
}

// cachedMapping is the Redis hash layout of a mapping.
type cachedMapping struct {
	Code        string `redis:"code"`
	OriginalURL string `redis:"original_url"`
	CreatedAt   int64  `redis:"created_at"`
}

func (r *RedisCacheRepository) key(code shortener.Code) string {
	return r.prefix + string(code)
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	var cached cachedMapping

	if err := r.client.HGetAll(ctx, r.key(code)).Scan(&cached); err != nil {
		r.logger.Debug("cache read failed", zap.String("code", string(code)), zap.Error(err))

		return nil, err
	}

	// A missing key scans into the zero value.
	if cached.OriginalURL == "" {
		return nil, shortener.ErrNotFound
	}

	return &shortener.Mapping{
		Code:        shortener.Code(cached.Code),
		OriginalURL: cached.OriginalURL,
		CreatedAt:   time.Unix(0, cached.CreatedAt),
	}, nil
}

func (r *RedisCacheRepository) cacheMapping(ctx context.Context, mapping *shortener.Mapping) {
	key := r.key(mapping.Code)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, cachedMapping{
			Code:        string(mapping.Code),
			OriginalURL: mapping.OriginalURL,
			CreatedAt:   mapping.CreatedAt.UnixNano(),
		})

		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}

		return nil
	})
	if err != nil {
		r.logger.Warn("cache write failed", zap.String("code", string(mapping.Code)), zap.Error(err))
	}
}

// Shutdown does nothing; the client belongs to the container.
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
