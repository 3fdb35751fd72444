package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/dto"
	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type gigCatalogMock struct {
	detail *models.GigDetail
	gigs   []models.Gig
	err    error
}

func (m *gigCatalogMock) GigDetail(ctx context.Context, id string) (*models.GigDetail, error) {
	return m.detail, m.err
}

func (m *gigCatalogMock) TeacherGigs(ctx context.Context, teacherID string) ([]models.Gig, error) {
	return m.gigs, m.err
}

type slotResolverMock struct {
	menu     *dto.SlotMenuResponse
	err      error
	lastDays []int
}

func (m *slotResolverMock) SlotMenu(ctx context.Context, gigID string, days []int) (*dto.SlotMenuResponse, error) {
	m.lastDays = days
	return m.menu, m.err
}

func (m *slotResolverMock) PreviewDates(ctx context.Context, gigID string, req dto.CreateBookingRequest) ([]dto.SessionDatePreview, error) {
	return nil, m.err
}

func TestGigHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGigHandler(&gigCatalogMock{detail: &models.GigDetail{
		Gig:         models.Gig{ID: "gig-1", Title: "Algebra Basics"},
		TeacherName: "Dewi",
	}}, &slotResolverMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/gigs/gig-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "gig-1"}}

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Algebra Basics")
}

func TestGigHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGigHandler(&gigCatalogMock{err: appErrors.ErrNotFound}, &slotResolverMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/gigs/nope", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGigHandlerListRequiresTeacherID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGigHandler(&gigCatalogMock{gigs: []models.Gig{{ID: "gig-1"}}}, &slotResolverMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/gigs", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	req, _ = http.NewRequest(http.MethodGet, "/gigs?teacherId=teacher-1", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gig-1")
}

func TestGigHandlerSlots(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolver := &slotResolverMock{menu: &dto.SlotMenuResponse{SharedSlots: []string{"10:00"}}}
	handler := NewGigHandler(&gigCatalogMock{}, resolver)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/gigs/gig-1/slots?days=1,3", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "gig-1"}}

	handler.Slots(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{1, 3}, resolver.lastDays)
}

func TestGigHandlerSlotsBadDays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGigHandler(&gigCatalogMock{}, &slotResolverMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/gigs/gig-1/slots?days=1,9", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "gig-1"}}

	handler.Slots(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
