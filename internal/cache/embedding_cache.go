package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/client"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
	"go.uber.org/zap"
)

// VectorCache stores embedding vectors keyed by query text hash
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float64, bool)
	Set(ctx context.Context, key string, vec []float64)
}

// RedisVectorCache is a Redis-backed VectorCache
type RedisVectorCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisVectorCache creates a Redis-backed cache, or nil when no address
// is configured. A nil cache disables caching; CachedEmbedder handles that.
func NewRedisVectorCache(cfg config.RedisConfig) *RedisVectorCache {
	if cfg.Addr == "" {
		return nil
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisVectorCache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: ttl,
	}
}

// Get fetches a cached vector. Cache errors are logged and treated as
// misses. Nil-safe so a disabled cache can still satisfy VectorCache.
func (c *RedisVectorCache) Get(ctx context.Context, key string) ([]float64, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("embedding cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var vec []float64
	if err := json.Unmarshal(data, &vec); err != nil {
		logger.Warn("embedding cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

// Set stores a vector; failures are logged, never surfaced
func (c *RedisVectorCache) Set(ctx context.Context, key string, vec []float64) {
	if c == nil {
		return
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("embedding cache write failed", zap.Error(err))
	}
}

// CachedEmbedder wraps an embedding client with a vector cache. Cache hits
// make no external call, so no usage entry is recorded for them.
type CachedEmbedder struct {
	inner client.EmbeddingInterface
	cache VectorCache
}

// NewCachedEmbedder wraps inner with cache; a nil cache passes through
func NewCachedEmbedder(inner client.EmbeddingInterface, cache VectorCache) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: cache}
}

// Embed returns the cached vector when present, otherwise delegates
func (e *CachedEmbedder) Embed(ctx context.Context, text string, rec *usage.Record) ([]float64, error) {
	if e.cache == nil {
		return e.inner.Embed(ctx, text, rec)
	}

	key := cacheKey(text)
	if vec, ok := e.cache.Get(ctx, key); ok {
		return vec, nil
	}

	vec, err := e.inner.Embed(ctx, text, rec)
	if err != nil {
		return nil, err
	}
	e.cache.Set(ctx, key, vec)
	return vec, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "nexus:embed:" + hex.EncodeToString(sum[:])
}
