package option

import (
	"context"
	"sync"

	"booklib/internal/apperr"
)

// Cache keeps per-entity option lists, lazily fetched and fully replaced on
// refresh. Lists are never merged incrementally: a refresh reloads the whole
// list from the source.
type Cache struct {
	mu      sync.Mutex
	source  Source
	entries map[Entity][]Entry
}

func NewCache(source Source) *Cache {
	return &Cache{
		source:  source,
		entries: make(map[Entity][]Entry),
	}
}

// Get returns the cached list for e, fetching it on first use.
func (c *Cache) Get(ctx context.Context, e Entity) ([]Entry, error) {
	if !entities[e] {
		return nil, ErrUnknownEntity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if list, ok := c.entries[e]; ok {
		return list, nil
	}
	return c.loadLocked(ctx, e)
}

// Refresh re-fetches and replaces the full list for e.
func (c *Cache) Refresh(ctx context.Context, e Entity) error {
	if !entities[e] {
		return ErrUnknownEntity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.loadLocked(ctx, e)
	return err
}

// CreateNamed inserts a new backing row for e and refreshes the list before
// returning. The id comes from the write response itself, so callers can use
// it immediately without re-querying by name.
func (c *Cache) CreateNamed(ctx context.Context, e Entity, name string) (int64, error) {
	if !e.Creatable() {
		return 0, ErrNotCreatable
	}
	id, err := c.source.CreateNamed(ctx, e, name)
	if err != nil {
		return 0, apperr.Backend("create "+string(e), err)
	}
	if err := c.Refresh(ctx, e); err != nil {
		return 0, err
	}
	return id, nil
}

// FindByValue returns the cached entry whose display value matches name
// exactly. Matching is case-sensitive.
func (c *Cache) FindByValue(ctx context.Context, e Entity, name string) (Entry, bool, error) {
	list, err := c.Get(ctx, e)
	if err != nil {
		return Entry{}, false, err
	}
	for _, entry := range list {
		if entry.Value == name {
			return entry, true, nil
		}
	}
	return Entry{}, false, nil
}

func (c *Cache) loadLocked(ctx context.Context, e Entity) ([]Entry, error) {
	list, err := c.source.LoadOptions(ctx, e)
	if err != nil {
		return nil, apperr.Backend("load "+string(e)+" options", err)
	}
	c.entries[e] = list
	return list, nil
}
