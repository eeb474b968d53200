package memory

import (
	"context"
	"sync"
	"time"

	"github.com/flujo/pos-system/internal/core/domain"
)

type cachedHighlight struct {
	highlight domain.Highlight
	expiresAt time.Time
}

// HighlightCache is the fallback used when Redis is disabled.
type HighlightCache struct {
	mu      sync.RWMutex
	entries map[string]cachedHighlight
	now     func() time.Time
}

func NewHighlightCache() *HighlightCache {
	return &HighlightCache{entries: make(map[string]cachedHighlight), now: time.Now}
}

// Get returns nil, nil on a miss or an expired entry.
func (c *HighlightCache) Get(_ context.Context, categoryID string) (*domain.Highlight, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[categoryID]
	if !ok || (!e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)) {
		return nil, nil
	}
	h := e.highlight
	return &h, nil
}

// Set stores h; a non-positive ttl never expires.
func (c *HighlightCache) Set(_ context.Context, categoryID string, h domain.Highlight, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := cachedHighlight{highlight: h}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[categoryID] = e
	return nil
}
