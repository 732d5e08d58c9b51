package redis

import (
	"context"
	"encoding/json"
	"time"

	"trivia-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const categoriesKey = "trivia:categories"

type cachedCategories struct {
	Categories []domain.Category `json:"categories"`
	FetchedAt  time.Time         `json:"fetched_at"`
}

// CategoryCache shares the single category slot between instances. The
// fetch time travels with the value; the key TTL only bounds storage.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewCategoryCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *CategoryCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryCache{client: client, ttl: ttl, log: log}
}

func (c *CategoryCache) Load(ctx context.Context) ([]domain.Category, time.Time, bool) {
	raw, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("category cache read failed", zap.Error(err))
		}
		return nil, time.Time{}, false
	}
	var cached cachedCategories
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.log.Warn("category cache holds malformed data", zap.Error(err))
		return nil, time.Time{}, false
	}
	return cached.Categories, cached.FetchedAt, true
}

func (c *CategoryCache) Store(ctx context.Context, categories []domain.Category, fetchedAt time.Time) {
	raw, err := json.Marshal(cachedCategories{Categories: categories, FetchedAt: fetchedAt})
	if err != nil {
		c.log.Warn("category cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, categoriesKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("category cache write failed", zap.Error(err))
	}
}
