package memory

import (
	"context"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

// CategoryCache keeps one process-wide category list with the time it was fetched.
type CategoryCache struct {
	mu         sync.RWMutex
	categories []domain.Category
	fetchedAt  time.Time
	set        bool
}

func NewCategoryCache() *CategoryCache {
	return &CategoryCache{}
}

func (c *CategoryCache) Load(_ context.Context) ([]domain.Category, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.set {
		return nil, time.Time{}, false
	}
	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out, c.fetchedAt, true
}

func (c *CategoryCache) Store(_ context.Context, categories []domain.Category, fetchedAt time.Time) {
	owned := make([]domain.Category, len(categories))
	copy(owned, categories)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = owned
	c.fetchedAt = fetchedAt
	c.set = true
}
