package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/dto"
	"github.com/tutorhive/tutorhive-api/internal/middleware"
	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/service"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type bookingLifecycleMock struct {
	createResp   *models.BookingWithSessions
	createErr    error
	lastParentID string
	lastReq      dto.CreateBookingRequest
	booking      *models.Booking
	actionErr    error
	lastNumber   int
	lastFilter   models.BookingFilter
}

func (m *bookingLifecycleMock) Create(ctx context.Context, parentID string, req dto.CreateBookingRequest) (*models.BookingWithSessions, error) {
	m.lastParentID = parentID
	m.lastReq = req
	return m.createResp, m.createErr
}

func (m *bookingLifecycleMock) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.BookingWithSessions, error) {
	if m.actionErr != nil {
		return nil, m.actionErr
	}
	return &models.BookingWithSessions{Booking: *m.booking}, nil
}

func (m *bookingLifecycleMock) List(ctx context.Context, actor *models.JWTClaims, filter models.BookingFilter) ([]models.Booking, *models.Pagination, error) {
	m.lastFilter = filter
	return []models.Booking{}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (m *bookingLifecycleMock) Accept(ctx context.Context, id string, actor *models.JWTClaims, req dto.AcceptBookingRequest) (*models.Booking, error) {
	return m.booking, m.actionErr
}

func (m *bookingLifecycleMock) Decline(ctx context.Context, id string, actor *models.JWTClaims) (*models.Booking, error) {
	return m.booking, m.actionErr
}

func (m *bookingLifecycleMock) Cancel(ctx context.Context, id string, actor *models.JWTClaims) (*models.Booking, error) {
	return m.booking, m.actionErr
}

func (m *bookingLifecycleMock) ConfirmPayment(ctx context.Context, id string) (*models.Booking, error) {
	return m.booking, m.actionErr
}

func (m *bookingLifecycleMock) CompleteSession(ctx context.Context, bookingID string, number int, actor *models.JWTClaims) (*models.Booking, error) {
	m.lastNumber = number
	return m.booking, m.actionErr
}

type exporterMock struct {
	result *service.ExportResult
	err    error
}

func (m *exporterMock) Schedule(ctx context.Context, bookingID string, actor *models.JWTClaims, format service.ExportFormat) (*service.ExportResult, error) {
	return m.result, m.err
}

func parentContext(t *testing.T, w *httptest.ResponseRecorder, method, target string, body []byte) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "parent-1", Role: models.RoleParent})
	return c
}

func TestBookingHandlerCreate(t *testing.T) {
	mockSvc := &bookingLifecycleMock{
		createResp: &models.BookingWithSessions{Booking: models.Booking{ID: "booking-1"}},
	}
	handler := NewBookingHandler(mockSvc, nil)

	payload, _ := json.Marshal(dto.CreateBookingRequest{GigID: "gig-1", StudentID: "student-1"})
	w := httptest.NewRecorder()
	c := parentContext(t, w, http.MethodPost, "/bookings", payload)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "parent-1", mockSvc.lastParentID)
	assert.Equal(t, "gig-1", mockSvc.lastReq.GigID)
}

func TestBookingHandlerCreateInvalidBody(t *testing.T) {
	handler := NewBookingHandler(&bookingLifecycleMock{}, nil)

	w := httptest.NewRecorder()
	c := parentContext(t, w, http.MethodPost, "/bookings", []byte(`{"gig_id":`))

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandlerCreateRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(&bookingLifecycleMock{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(`{}`))
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandlerList(t *testing.T) {
	mockSvc := &bookingLifecycleMock{}
	handler := NewBookingHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c := parentContext(t, w, http.MethodGet, "/bookings?status=pending&page=2&limit=5", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.BookingStatusPending, mockSvc.lastFilter.Status)
	assert.Equal(t, 2, mockSvc.lastFilter.Page)
	assert.Equal(t, 5, mockSvc.lastFilter.PageSize)
}

func TestBookingHandlerAcceptServiceError(t *testing.T) {
	mockSvc := &bookingLifecycleMock{actionErr: appErrors.ErrForbidden}
	handler := NewBookingHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c := parentContext(t, w, http.MethodPost, "/bookings/b1/accept", nil)
	c.Params = gin.Params{{Key: "id", Value: "b1"}}

	handler.Accept(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingHandlerCompleteSessionBadNumber(t *testing.T) {
	handler := NewBookingHandler(&bookingLifecycleMock{}, nil)

	w := httptest.NewRecorder()
	c := parentContext(t, w, http.MethodPost, "/bookings/b1/sessions/zero/complete", nil)
	c.Params = gin.Params{{Key: "id", Value: "b1"}, {Key: "number", Value: "zero"}}

	handler.CompleteSession(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandlerCompleteSession(t *testing.T) {
	mockSvc := &bookingLifecycleMock{booking: &models.Booking{ID: "b1", Status: models.BookingStatusConfirmed}}
	handler := NewBookingHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c := parentContext(t, w, http.MethodPost, "/bookings/b1/sessions/3/complete", nil)
	c.Params = gin.Params{{Key: "id", Value: "b1"}, {Key: "number", Value: "3"}}

	handler.CompleteSession(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, mockSvc.lastNumber)
}

func TestBookingHandlerExport(t *testing.T) {
	handler := NewBookingHandler(&bookingLifecycleMock{}, &exporterMock{result: &service.ExportResult{
		FileName:    "booking-b1-schedule.csv",
		ContentType: "text/csv",
		Data:        []byte("header\n"),
	}})

	w := httptest.NewRecorder()
	c := parentContext(t, w, http.MethodGet, "/bookings/b1/export?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "b1"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "booking-b1-schedule.csv")
}

func TestBookingHandlerExportDisabled(t *testing.T) {
	handler := NewBookingHandler(&bookingLifecycleMock{}, nil)

	w := httptest.NewRecorder()
	c := parentContext(t, w, http.MethodGet, "/bookings/b1/export", nil)
	c.Params = gin.Params{{Key: "id", Value: "b1"}}

	handler.Export(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
