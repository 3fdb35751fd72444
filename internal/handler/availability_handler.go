package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/dto"
	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/response"
)

type availabilityEditor interface {
	List(ctx context.Context, teacherID string) ([]models.TeacherAvailability, error)
	Upsert(ctx context.Context, teacherID string, req dto.UpsertAvailabilityRequest) ([]models.TeacherAvailability, error)
}

// AvailabilityHandler exposes the teacher availability editor.
type AvailabilityHandler struct {
	availability availabilityEditor
}

// NewAvailabilityHandler constructs AvailabilityHandler.
func NewAvailabilityHandler(availability availabilityEditor) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Get godoc
// @Summary Get a teacher's weekly availability
// @Tags Availability
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	week, err := h.availability.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Upsert godoc
// @Summary Save the caller's weekly availability
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.UpsertAvailabilityRequest true "Availability payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/availability [put]
func (h *AvailabilityHandler) Upsert(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpsertAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	week, err := h.availability.Upsert(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}
