package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type draftRepo interface {
	Get(ctx context.Context, parentID, gigID string) (*models.BookingDraft, error)
	Save(ctx context.Context, draft *models.BookingDraft, ttl time.Duration) error
	Delete(ctx context.Context, parentID, gigID string) error
}

// DraftService stores in-progress booking forms so a parent can resume a
// half-filled submission. Drafts are per (parent, gig) and expire after the
// configured TTL.
type DraftService struct {
	drafts draftRepo
	ttl    time.Duration
	logger *zap.Logger
}

// NewDraftService constructs the service. ttl <= 0 falls back to 72 hours.
func NewDraftService(drafts draftRepo, ttl time.Duration, logger *zap.Logger) *DraftService {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{drafts: drafts, ttl: ttl, logger: logger}
}

// Get returns a parent's draft for a gig.
func (s *DraftService) Get(ctx context.Context, parentID, gigID string) (*models.BookingDraft, error) {
	draft, err := s.drafts.Get(ctx, parentID, gigID)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no draft for this gig")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}
	return draft, nil
}

// Save upserts a parent's draft for a gig. Ownership fields are always
// overwritten from the authenticated caller.
func (s *DraftService) Save(ctx context.Context, parentID, gigID string, draft *models.BookingDraft) (*models.BookingDraft, error) {
	draft.ParentID = parentID
	draft.GigID = gigID
	draft.UpdatedAt = time.Now().UTC()

	if err := s.drafts.Save(ctx, draft, s.ttl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save draft")
	}
	return draft, nil
}

// Delete discards a parent's draft. Deleting a missing draft is fine.
func (s *DraftService) Delete(ctx context.Context, parentID, gigID string) error {
	if err := s.drafts.Delete(ctx, parentID, gigID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete draft")
	}
	return nil
}
