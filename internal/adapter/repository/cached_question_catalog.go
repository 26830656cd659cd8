package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/domain/repositories"
)

// CachedQuestionCatalog wraps a QuestionCatalog with a Redis read-through
// cache. The catalog is immutable after seeding, so staleness is bounded
// only by the TTL and cache errors degrade to a direct read.
type CachedQuestionCatalog struct {
	inner  repositories.QuestionCatalog
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedQuestionCatalog creates a caching wrapper around the catalog
func NewCachedQuestionCatalog(inner repositories.QuestionCatalog, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedQuestionCatalog {
	return &CachedQuestionCatalog{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func catalogCacheKey(slot entities.TimeSlot) string {
	return "catalog:slot:" + string(slot)
}

// ListBySlot returns the slot's pool from cache, falling back to the
// underlying catalog on miss or cache failure.
func (c *CachedQuestionCatalog) ListBySlot(ctx context.Context, slot entities.TimeSlot) ([]*entities.Question, error) {
	key := catalogCacheKey(slot)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var questions []*entities.Question
		if err := json.Unmarshal(cached, &questions); err == nil {
			return questions, nil
		}
		c.logger.Warn("discarding corrupt catalog cache entry", zap.String("key", key))
	} else if err != redis.Nil {
		c.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	questions, err := c.inner.ListBySlot(ctx, slot)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(questions); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return questions, nil
}
