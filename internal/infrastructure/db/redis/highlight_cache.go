package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flujo/pos-system/internal/core/domain"
)

// HighlightCache stores one suggestion per category.
// Key format: <prefix>:highlight:<category_id>
type HighlightCache struct {
	client *Client
}

func NewHighlightCache(client *Client) *HighlightCache {
	return &HighlightCache{client: client}
}

// Get returns nil, nil on a miss.
func (c *HighlightCache) Get(ctx context.Context, categoryID string) (*domain.Highlight, error) {
	raw, err := c.client.Get(ctx, c.key(categoryID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("highlight cache get: %w", err)
	}

	var h domain.Highlight
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("highlight cache decode: %w", err)
	}
	return &h, nil
}

// Set stores h for ttl; a zero ttl keeps it until overwritten.
func (c *HighlightCache) Set(ctx context.Context, categoryID string, h domain.Highlight, ttl time.Duration) error {
	raw, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("highlight cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(categoryID), raw, ttl).Err()
}

func (c *HighlightCache) key(categoryID string) string {
	return c.client.Key("highlight", categoryID)
}
