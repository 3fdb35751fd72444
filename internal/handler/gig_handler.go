package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/dto"
	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/response"
)

type gigCatalog interface {
	GigDetail(ctx context.Context, id string) (*models.GigDetail, error)
	TeacherGigs(ctx context.Context, teacherID string) ([]models.Gig, error)
}

type slotResolver interface {
	SlotMenu(ctx context.Context, gigID string, days []int) (*dto.SlotMenuResponse, error)
	PreviewDates(ctx context.Context, gigID string, req dto.CreateBookingRequest) ([]dto.SessionDatePreview, error)
}

// GigHandler exposes the gig catalog read side plus the slot resolver the
// booking form consumes.
type GigHandler struct {
	catalog  gigCatalog
	bookings slotResolver
}

// NewGigHandler constructs GigHandler.
func NewGigHandler(catalog gigCatalog, bookings slotResolver) *GigHandler {
	return &GigHandler{catalog: catalog, bookings: bookings}
}

// Get godoc
// @Summary Get gig detail with the teacher's profile
// @Tags Gigs
// @Produce json
// @Param id path string true "Gig ID"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id} [get]
func (h *GigHandler) Get(c *gin.Context) {
	gig, err := h.catalog.GigDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gig, nil)
}

// List godoc
// @Summary List a teacher's published gigs
// @Tags Gigs
// @Produce json
// @Param teacherId query string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /gigs [get]
func (h *GigHandler) List(c *gin.Context) {
	teacherID := c.Query("teacherId")
	if teacherID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "teacherId is required"))
		return
	}

	gigs, err := h.catalog.TeacherGigs(c.Request.Context(), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gigs, nil)
}

// Slots godoc
// @Summary Resolve bookable time slots for a weekday selection
// @Tags Gigs
// @Produce json
// @Param id path string true "Gig ID"
// @Param days query string false "Comma-separated weekday numbers, 0=Sunday"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id}/slots [get]
func (h *GigHandler) Slots(c *gin.Context) {
	days, err := parseDays(c.Query("days"))
	if err != nil {
		response.Error(c, err)
		return
	}

	menu, err := h.bookings.SlotMenu(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, menu, nil)
}

// PreviewDates godoc
// @Summary Preview the session calendar before submitting
// @Tags Gigs
// @Accept json
// @Produce json
// @Param id path string true "Gig ID"
// @Param payload body dto.CreateBookingRequest true "Booking parameters"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id}/session-dates [post]
func (h *GigHandler) PreviewDates(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	preview, err := h.bookings.PreviewDates(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

func parseDays(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || day < 0 || day > 6 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "days must be weekday numbers between 0 and 6")
		}
		days = append(days, day)
	}
	return days, nil
}
