package store

import (
	"context"
	"sort"
	"sync"

	"cronos/types"
)

// MemoryStore keeps articles in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*types.Article
	bySlug map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*types.Article),
		bySlug: make(map[string]string),
	}
}

func (m *MemoryStore) Create(_ context.Context, a *types.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[a.ID]; ok {
		return ErrConflict
	}
	if _, ok := m.bySlug[a.Slug]; ok {
		return ErrConflict
	}
	c := clone(a)
	m.byID[a.ID] = c
	m.bySlug[a.Slug] = a.ID
	return nil
}

func (m *MemoryStore) Update(_ context.Context, a *types.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.byID[a.ID]
	if !ok {
		return ErrNotFound
	}
	if a.Slug != old.Slug {
		if owner, taken := m.bySlug[a.Slug]; taken && owner != a.ID {
			return ErrConflict
		}
		delete(m.bySlug, old.Slug)
		m.bySlug[a.Slug] = a.ID
	}
	m.byID[a.ID] = clone(a)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*types.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(a), nil
}

func (m *MemoryStore) GetBySlug(ctx context.Context, slug string) (*types.Article, error) {
	m.mu.RLock()
	id, ok := m.bySlug[slug]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return m.Get(ctx, id)
}

// List returns matching articles, most recently updated first.
func (m *MemoryStore) List(_ context.Context, filter ListFilter) ([]*types.Article, error) {
	m.mu.RLock()
	out := make([]*types.Article, 0, len(m.byID))
	for _, a := range m.byID {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, clone(a))
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MemoryStore) Close(context.Context) error { return nil }

func clone(a *types.Article) *types.Article {
	c := *a
	if a.PublishedAt != nil {
		t := *a.PublishedAt
		c.PublishedAt = &t
	}
	return &c
}
