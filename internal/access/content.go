package access

import (
	"context"
	"errors"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/repository"
	"happy-jasmine/internal/result"

	"go.uber.org/zap"
)

// ContentStore reads and replaces the site content document
type ContentStore struct {
	repo   repository.ContentRepository
	logger *zap.Logger
}

// NewContentStore creates a ContentStore
func NewContentStore(repo repository.ContentRepository, logger *zap.Logger) *ContentStore {
	return &ContentStore{repo: repo, logger: logger}
}

// Get returns the stored document, or the default document when nothing has been saved yet
func (s *ContentStore) Get(ctx context.Context) result.Result[domain.Document] {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			return result.Ok(domain.DefaultDocument())
		}
		return failure[domain.Document](s.logger, "get content", err)
	}
	return result.Ok(doc)
}

// Theme returns the resolved theme of the current document
func (s *ContentStore) Theme(ctx context.Context) result.Result[domain.Theme] {
	r := s.Get(ctx)
	doc, ok := r.Data()
	if !ok {
		return result.Fail[domain.Theme](r.Cause())
	}
	return result.Ok(doc.Site().Theme)
}

// Update replaces the whole document. Concurrent updates overwrite each other.
func (s *ContentStore) Update(ctx context.Context, doc domain.Document) result.Result[result.Empty] {
	if doc == nil {
		return invalid[result.Empty]("content document is required")
	}
	if err := s.repo.Upsert(ctx, doc); err != nil {
		return failure[result.Empty](s.logger, "update content", err)
	}
	return result.Ok(result.Empty{})
}
