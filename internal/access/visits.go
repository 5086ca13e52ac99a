package access

import (
	"context"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/realtime"
	"happy-jasmine/internal/repository"
	"happy-jasmine/internal/result"

	"go.uber.org/zap"
)

// ChangeFeed delivers visit counter changes by page type. *realtime.Broker satisfies it.
type ChangeFeed interface {
	Subscribe(topic string, handler func(realtime.Event)) *realtime.Subscription
}

// VisitCounter counts page visits
type VisitCounter struct {
	repo   repository.VisitCountRepository
	feed   ChangeFeed
	logger *zap.Logger
}

// NewVisitCounter creates a VisitCounter
func NewVisitCounter(repo repository.VisitCountRepository, feed ChangeFeed, logger *zap.Logger) *VisitCounter {
	return &VisitCounter{repo: repo, feed: feed, logger: logger}
}

// Increment records one visit and returns the new total. The increment runs
// inside the database so concurrent visits are all counted.
func (v *VisitCounter) Increment(ctx context.Context, pageType string) result.Result[int64] {
	if !domain.ValidPageType(pageType) {
		return invalid[int64]("invalid page type %q", pageType)
	}
	count, err := v.repo.Increment(ctx, pageType)
	if err != nil {
		return failure[int64](v.logger, "increment visit count", err, zap.String("page_type", pageType))
	}
	return result.Ok(count)
}

// Get returns the visit total of pageType, 0 for a page never visited
func (v *VisitCounter) Get(ctx context.Context, pageType string) result.Result[int64] {
	if !domain.ValidPageType(pageType) {
		return invalid[int64]("invalid page type %q", pageType)
	}
	visit, err := v.repo.Get(ctx, pageType)
	if err != nil {
		return failure[int64](v.logger, "get visit count", err, zap.String("page_type", pageType))
	}
	return result.Ok(visit.VisitCount)
}

// List returns every counter
func (v *VisitCounter) List(ctx context.Context) result.Result[[]*domain.VisitCount] {
	visits, err := v.repo.List(ctx)
	if err != nil {
		return failure[[]*domain.VisitCount](v.logger, "list visit counts", err)
	}
	return result.OkWithCount(visits, len(visits))
}

// SubscribeToChanges calls onChange whenever the counter of pageType changes.
// Changes made while nobody listens are not replayed.
func (v *VisitCounter) SubscribeToChanges(pageType string, onChange func(domain.VisitCount)) (unsubscribe func()) {
	sub := v.feed.Subscribe(pageType, func(e realtime.Event) {
		onChange(e.Data)
	})
	return sub.Unsubscribe
}
