package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/response"
)

type draftStore interface {
	Get(ctx context.Context, parentID, gigID string) (*models.BookingDraft, error)
	Save(ctx context.Context, parentID, gigID string, draft *models.BookingDraft) (*models.BookingDraft, error)
	Delete(ctx context.Context, parentID, gigID string) error
}

// DraftHandler exposes resumable booking drafts.
type DraftHandler struct {
	drafts draftStore
}

// NewDraftHandler constructs DraftHandler.
func NewDraftHandler(drafts draftStore) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// Get godoc
// @Summary Get the caller's draft for a gig
// @Tags Drafts
// @Produce json
// @Param gigId path string true "Gig ID"
// @Success 200 {object} response.Envelope
// @Router /drafts/{gigId} [get]
func (h *DraftHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	draft, err := h.drafts.Get(c.Request.Context(), claims.UserID, c.Param("gigId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// Save godoc
// @Summary Save the caller's draft for a gig
// @Tags Drafts
// @Accept json
// @Produce json
// @Param gigId path string true "Gig ID"
// @Param payload body models.BookingDraft true "Draft payload"
// @Success 200 {object} response.Envelope
// @Router /drafts/{gigId} [put]
func (h *DraftHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var draft models.BookingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	saved, err := h.drafts.Save(c.Request.Context(), claims.UserID, c.Param("gigId"), &draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}

// Delete godoc
// @Summary Discard the caller's draft for a gig
// @Tags Drafts
// @Param gigId path string true "Gig ID"
// @Success 204 {object} nil
// @Router /drafts/{gigId} [delete]
func (h *DraftHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.drafts.Delete(c.Request.Context(), claims.UserID, c.Param("gigId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
