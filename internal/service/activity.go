package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/validation"
	"github.com/khrees2412/mockprep/pkg/models"
)

// recorder appends activity entries after successful mutations. A failed
// insert or publish is logged and never fails the mutation it describes.
type recorder struct {
	store     ActivityStore
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func (r *recorder) record(ctx context.Context, userID, activityType, description string, metadata map[string]any) {
	entry := &models.Activity{
		ID:           uuid.New().String(),
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
		Metadata:     metadata,
		CreatedAt:    r.now().UTC(),
	}

	// The mutation already landed; don't let a cancelled request drop its entry
	ctx = context.WithoutCancel(ctx)
	if err := r.store.LogActivity(ctx, entry); err != nil {
		r.logger.Warn("failed to log activity",
			zap.String("user_id", userID),
			zap.String("activity_type", activityType),
			zap.Error(err),
		)
		return
	}

	if r.publisher != nil {
		if err := r.publisher.PublishActivity(ctx, entry); err != nil {
			r.logger.Warn("failed to publish activity",
				zap.String("activity_id", entry.ID),
				zap.Error(err),
			)
		}
	}
}

// ActivityService reads the activity history in newest-first offset pages
type ActivityService struct {
	store    ActivityStore
	pageSize int
}

// Fetch returns the zero-based page of the session user's history
func (s *ActivityService) Fetch(ctx context.Context, session *models.Session, page int) (*models.ActivityPage, error) {
	return s.Query(ctx, session, validation.ActivityQuery{Page: page + 1, PerPage: s.pageSize})
}

// Query is Fetch with a caller-chosen page size and type filter. Pages are one-based.
func (s *ActivityService) Query(ctx context.Context, session *models.Session, q validation.ActivityQuery) (*models.ActivityPage, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	q, err := validation.Activity(q, s.pageSize)
	if err != nil {
		return nil, err
	}

	from := (q.Page - 1) * q.PerPage
	items, total, err := s.store.ListActivity(ctx, session.UserID, from, q.PerPage, q.ActivityType)
	if err != nil {
		return nil, app.Remote("fetch activity history", err)
	}
	return &models.ActivityPage{
		Items:   items,
		Page:    q.Page - 1,
		Total:   total,
		HasMore: from+q.PerPage < total,
	}, nil
}

// Feed is an infinite-scroll view of the history. Loaded pages are kept
// and concatenated in fetch order; only Reload starts over.
type Feed struct {
	service *ActivityService
	session *models.Session

	mu      sync.Mutex
	pages   []*models.ActivityPage
	hasMore bool
}

// Feed starts an empty feed for session
func (s *ActivityService) Feed(session *models.Session) *Feed {
	return &Feed{service: s, session: session, hasMore: true}
}

// LoadMore fetches the next page. It is a no-op once HasMore is false.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.hasMore {
		return nil
	}
	page, err := f.service.Fetch(ctx, f.session, len(f.pages))
	if err != nil {
		return err
	}
	f.pages = append(f.pages, page)
	f.hasMore = page.HasMore
	return nil
}

// Items returns every loaded entry, oldest page first
func (f *Feed) Items() []*models.Activity {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := []*models.Activity{}
	for _, p := range f.pages {
		items = append(items, p.Items...)
	}
	return items
}

func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// Total is the history size reported by the latest page, or 0 before any load
func (f *Feed) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pages) == 0 {
		return 0
	}
	return f.pages[len(f.pages)-1].Total
}

// Reload drops loaded pages and fetches the first one again
func (f *Feed) Reload(ctx context.Context) error {
	f.mu.Lock()
	f.pages = nil
	f.hasMore = true
	f.mu.Unlock()
	return f.LoadMore(ctx)
}
