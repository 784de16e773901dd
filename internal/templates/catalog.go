package templates

import (
	"context"
	"fmt"
	"sort"
	"sync"

	dErrors "appforms/pkg/domain-errors"
	"appforms/pkg/platform/sentinel"
)

// Catalog is the in-memory index of loaded templates by id. Templates in the
// catalog are shared and must be treated as read-only; callers that reshape
// one take a Copy first.
type Catalog struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{templates: make(map[string]*Template)}
}

// Replace swaps the catalog contents for templates in one step. Two templates
// sharing an id is a conflict and leaves the catalog unchanged.
func (c *Catalog) Replace(templates []*Template) error {
	next := make(map[string]*Template, len(templates))
	for _, t := range templates {
		if _, exists := next[t.ID]; exists {
			return dErrors.New(dErrors.CodeConflict, fmt.Sprintf("template id %q is defined more than once", t.ID))
		}
		next[t.ID] = t
	}

	c.mu.Lock()
	c.templates = next
	c.mu.Unlock()
	return nil
}

// Get returns the template with the id, or an error wrapping
// sentinel.ErrNotFound.
func (c *Catalog) Get(_ context.Context, id string) (*Template, error) {
	c.mu.RLock()
	t, ok := c.templates[id]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("template %q: %w", id, sentinel.ErrNotFound)
	}
	return t, nil
}

// List returns every template ordered by id.
func (c *Catalog) List(_ context.Context) []*Template {
	c.mu.RLock()
	out := make([]*Template, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len is the number of templates held.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}
