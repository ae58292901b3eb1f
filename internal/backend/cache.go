package backend

import (
	"context"
	"sync"

	"github.com/takak2166/appstruct/internal/logger"
	"github.com/takak2166/appstruct/internal/models"
)

// Cache serves repeated flow and page listings for a project from memory
// until Invalidate is called. Writes pass straight through.
type Cache struct {
	Backend

	mu    sync.Mutex
	flows map[string][]models.Flow
	pages map[string][]models.Page
}

// NewCache wraps b
func NewCache(b Backend) *Cache {
	return &Cache{
		Backend: b,
		flows:   make(map[string][]models.Flow),
		pages:   make(map[string][]models.Page),
	}
}

// ListFlows returns the cached flows of a project, loading them on a miss
func (c *Cache) ListFlows(ctx context.Context, projectID string) ([]models.Flow, error) {
	c.mu.Lock()
	cached, ok := c.flows[projectID]
	c.mu.Unlock()
	if ok {
		return append([]models.Flow(nil), cached...), nil
	}

	flows, err := c.Backend.ListFlows(ctx, projectID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.flows[projectID] = flows
	c.mu.Unlock()
	return append([]models.Flow(nil), flows...), nil
}

// ListPages returns the cached pages of a project, loading them on a miss
func (c *Cache) ListPages(ctx context.Context, projectID string) ([]models.Page, error) {
	c.mu.Lock()
	cached, ok := c.pages[projectID]
	c.mu.Unlock()
	if ok {
		return append([]models.Page(nil), cached...), nil
	}

	pages, err := c.Backend.ListPages(ctx, projectID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.pages[projectID] = pages
	c.mu.Unlock()
	return append([]models.Page(nil), pages...), nil
}

// Invalidate drops everything cached for a project
func (c *Cache) Invalidate(_ context.Context, projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.flows, projectID)
	delete(c.pages, projectID)

	logger.Debug("Invalidated flow and page cache", map[string]interface{}{
		"project": projectID,
	})
}
