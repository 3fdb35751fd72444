package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/dto"
	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/service"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/response"
)

type bookingLifecycle interface {
	Create(ctx context.Context, parentID string, req dto.CreateBookingRequest) (*models.BookingWithSessions, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.BookingWithSessions, error)
	List(ctx context.Context, actor *models.JWTClaims, filter models.BookingFilter) ([]models.Booking, *models.Pagination, error)
	Accept(ctx context.Context, id string, actor *models.JWTClaims, req dto.AcceptBookingRequest) (*models.Booking, error)
	Decline(ctx context.Context, id string, actor *models.JWTClaims) (*models.Booking, error)
	Cancel(ctx context.Context, id string, actor *models.JWTClaims) (*models.Booking, error)
	ConfirmPayment(ctx context.Context, id string) (*models.Booking, error)
	CompleteSession(ctx context.Context, bookingID string, number int, actor *models.JWTClaims) (*models.Booking, error)
}

type scheduleExporter interface {
	Schedule(ctx context.Context, bookingID string, actor *models.JWTClaims, format service.ExportFormat) (*service.ExportResult, error)
}

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	bookings bookingLifecycle
	exports  scheduleExporter
}

// NewBookingHandler constructs BookingHandler. exports may be nil when the
// feature is disabled.
func NewBookingHandler(bookings bookingLifecycle, exports scheduleExporter) *BookingHandler {
	return &BookingHandler{bookings: bookings, exports: exports}
}

// Create godoc
// @Summary Submit a booking request
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body dto.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.bookings.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List the caller's bookings
// @Tags Bookings
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var filter models.BookingFilter
	filter.Status = models.BookingStatus(c.Query("status"))
	filter.StudentID = c.Query("studentId")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	bookings, pagination, err := h.bookings.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, pagination)
}

// Get godoc
// @Summary Get a booking with its sessions
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	result, err := h.bookings.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Accept godoc
// @Summary Accept a pending booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param payload body dto.AcceptBookingRequest false "Optional meeting link"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id}/accept [post]
func (h *BookingHandler) Accept(c *gin.Context) {
	var req dto.AcceptBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}

	booking, err := h.bookings.Accept(c.Request.Context(), c.Param("id"), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// Decline godoc
// @Summary Decline a pending booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id}/decline [post]
func (h *BookingHandler) Decline(c *gin.Context) {
	booking, err := h.bookings.Decline(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// Cancel godoc
// @Summary Cancel a confirmed booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.bookings.Cancel(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// ConfirmPayment godoc
// @Summary Confirm payment for an accepted booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id}/payment-confirmed [post]
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	booking, err := h.bookings.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// CompleteSession godoc
// @Summary Mark one session as completed
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Param number path int true "Session number"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id}/sessions/{number}/complete [post]
func (h *BookingHandler) CompleteSession(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session number must be a positive integer"))
		return
	}

	booking, err := h.bookings.CompleteSession(c.Request.Context(), c.Param("id"), number, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// Export godoc
// @Summary Download the session schedule
// @Tags Bookings
// @Produce text/csv
// @Param id path string true "Booking ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /bookings/{id}/export [get]
func (h *BookingHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.Schedule(c.Request.Context(), c.Param("id"), claimsFromContext(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
