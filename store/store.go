// Package store persists article records. The importer never writes here
// directly; API handlers and the feed pipeline hand results over.
package store

import (
	"context"
	"errors"

	"cronos/types"
)

var (
	ErrNotFound = errors.New("article not found")
	ErrConflict = errors.New("article already exists")
)

// ListFilter narrows List results. Zero values mean no filter / no limit.
type ListFilter struct {
	Status types.ArticleStatus
	Limit  int
}

// ArticleStore is the record store contract: create, update and read by id
// or slug, list by status.
type ArticleStore interface {
	Create(ctx context.Context, a *types.Article) error
	Update(ctx context.Context, a *types.Article) error
	Get(ctx context.Context, id string) (*types.Article, error)
	GetBySlug(ctx context.Context, slug string) (*types.Article, error)
	List(ctx context.Context, filter ListFilter) ([]*types.Article, error)
	Close(ctx context.Context) error
}

// Lookup resolves an id or a slug.
func Lookup(ctx context.Context, s ArticleStore, idOrSlug string) (*types.Article, error) {
	a, err := s.Get(ctx, idOrSlug)
	if errors.Is(err, ErrNotFound) {
		return s.GetBySlug(ctx, idOrSlug)
	}
	return a, err
}

// CreateUnique creates a, suffixing the slug with the article id when only
// the slug collides. ErrConflict is still returned when the id exists.
func CreateUnique(ctx context.Context, s ArticleStore, a *types.Article) error {
	err := s.Create(ctx, a)
	if !errors.Is(err, ErrConflict) {
		return err
	}
	if _, getErr := s.Get(ctx, a.ID); getErr == nil {
		return ErrConflict
	}
	suffix := a.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	a.Slug = a.Slug + "-" + suffix
	return s.Create(ctx, a)
}
