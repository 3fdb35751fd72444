package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

// DraftRepository stores in-progress booking forms in Redis, keyed by
// (parent, gig). Drafts expire on TTL; a successful submission deletes the
// key explicitly.
type DraftRepository struct {
	client *redis.Client
}

// NewDraftRepository constructs a draft repository.
func NewDraftRepository(client *redis.Client) *DraftRepository {
	return &DraftRepository{client: client}
}

func draftKey(parentID, gigID string) string {
	return fmt.Sprintf("booking:draft:%s:%s", parentID, gigID)
}

// Get retrieves a stored draft. Missing keys surface as ErrCacheMiss.
func (r *DraftRepository) Get(ctx context.Context, parentID, gigID string) (*models.BookingDraft, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, draftKey(parentID, gigID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get draft: %w", err)
	}

	var draft models.BookingDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &draft, nil
}

// Save stores the draft with the given TTL.
func (r *DraftRepository) Save(ctx context.Context, draft *models.BookingDraft, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	draft.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	if err := r.client.Set(ctx, draftKey(draft.ParentID, draft.GigID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft: %w", err)
	}
	return nil
}

// Delete removes a draft, typically after its booking was submitted.
func (r *DraftRepository) Delete(ctx context.Context, parentID, gigID string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, draftKey(parentID, gigID)).Err(); err != nil {
		return fmt.Errorf("redis delete draft: %w", err)
	}
	return nil
}
