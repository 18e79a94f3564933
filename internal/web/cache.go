package web

import (
	"sync"

	"github.com/matsen/modelgraph/internal/viz"
)

// DocumentCache keeps the most recent rendered document. Invalidate starts a
// new generation; the next Get rebuilds. Builds are serialized.
type DocumentCache struct {
	mu         sync.Mutex
	generation uint64
	doc        *viz.Document
	builtFor   uint64
}

// Get returns the cached document for the current generation, calling build
// when there is none. Failed builds are not cached. The bool reports a cache hit.
func (c *DocumentCache) Get(build func() (*viz.Document, error)) (*viz.Document, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc != nil && c.builtFor == c.generation {
		return c.doc, true, nil
	}

	doc, err := build()
	if err != nil {
		c.doc = nil
		return nil, false, err
	}
	c.doc = doc
	c.builtFor = c.generation
	return doc, false, nil
}

// Invalidate discards the cached document.
func (c *DocumentCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
}

// Generation returns the current cache generation.
func (c *DocumentCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}
