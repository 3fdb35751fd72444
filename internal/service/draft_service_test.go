package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type mockDraftRepo struct {
	draft   *models.BookingDraft
	saved   *models.BookingDraft
	ttl     time.Duration
	deleted bool
}

func (m *mockDraftRepo) Get(ctx context.Context, parentID, gigID string) (*models.BookingDraft, error) {
	if m.draft == nil {
		return nil, appErrors.ErrCacheMiss
	}
	return m.draft, nil
}

func (m *mockDraftRepo) Save(ctx context.Context, draft *models.BookingDraft, ttl time.Duration) error {
	m.saved = draft
	m.ttl = ttl
	return nil
}

func (m *mockDraftRepo) Delete(ctx context.Context, parentID, gigID string) error {
	m.deleted = true
	return nil
}

func TestDraftService_Save(t *testing.T) {
	repo := &mockDraftRepo{}
	svc := NewDraftService(repo, 48*time.Hour, zap.NewNop())

	draft, err := svc.Save(context.Background(), "parent-1", "gig-1", &models.BookingDraft{
		ParentID:        "someone-else",
		StudentID:       "student-1",
		SessionsPerWeek: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "parent-1", draft.ParentID)
	assert.Equal(t, "gig-1", draft.GigID)
	assert.False(t, draft.UpdatedAt.IsZero())
	assert.Equal(t, 48*time.Hour, repo.ttl)
	assert.Same(t, draft, repo.saved)
}

func TestDraftService_Get(t *testing.T) {
	t.Run("cache miss maps to not found", func(t *testing.T) {
		svc := NewDraftService(&mockDraftRepo{}, 0, zap.NewNop())

		_, err := svc.Get(context.Background(), "parent-1", "gig-1")
		requireAppError(t, err, appErrors.ErrNotFound.Code)
	})

	t.Run("returns the stored draft", func(t *testing.T) {
		svc := NewDraftService(&mockDraftRepo{draft: &models.BookingDraft{GigID: "gig-1"}}, 0, zap.NewNop())

		draft, err := svc.Get(context.Background(), "parent-1", "gig-1")
		require.NoError(t, err)
		assert.Equal(t, "gig-1", draft.GigID)
	})
}

func TestDraftService_Delete(t *testing.T) {
	repo := &mockDraftRepo{}
	svc := NewDraftService(repo, 0, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "parent-1", "gig-1"))
	assert.True(t, repo.deleted)
}
