package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/dto"
	"github.com/tutorhive/tutorhive-api/internal/middleware"
	"github.com/tutorhive/tutorhive-api/internal/models"
)

type availabilityEditorMock struct {
	week          []models.TeacherAvailability
	err           error
	lastTeacherID string
	lastReq       dto.UpsertAvailabilityRequest
}

func (m *availabilityEditorMock) List(ctx context.Context, teacherID string) ([]models.TeacherAvailability, error) {
	m.lastTeacherID = teacherID
	return m.week, m.err
}

func (m *availabilityEditorMock) Upsert(ctx context.Context, teacherID string, req dto.UpsertAvailabilityRequest) ([]models.TeacherAvailability, error) {
	m.lastTeacherID = teacherID
	m.lastReq = req
	return m.week, m.err
}

func TestAvailabilityHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &availabilityEditorMock{week: []models.TeacherAvailability{{DayOfWeek: 1, IsAvailable: true}}}
	handler := NewAvailabilityHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/teachers/teacher-1/availability", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "teacher-1"}}

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "teacher-1", mockSvc.lastTeacherID)
}

func TestAvailabilityHandlerUpsert(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &availabilityEditorMock{}
	handler := NewAvailabilityHandler(mockSvc)

	body := `{"days":[{"day_of_week":1,"is_available":true,"start_time":"09:00","end_time":"12:00"}]}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/teachers/availability", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "teacher-1", Role: models.RoleTeacher})

	handler.Upsert(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "teacher-1", mockSvc.lastTeacherID)
	require.Len(t, mockSvc.lastReq.Days, 1)
	assert.Equal(t, "09:00", mockSvc.lastReq.Days[0].StartTime)
}

func TestAvailabilityHandlerUpsertRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAvailabilityHandler(&availabilityEditorMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/teachers/availability", bytes.NewBufferString(`{}`))
	c.Request = req

	handler.Upsert(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
