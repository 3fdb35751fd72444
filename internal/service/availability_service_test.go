package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/dto"
	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type mockAvailabilityRepo struct {
	stored    []models.TeacherAvailability
	upserted  []models.TeacherAvailability
	listErr   error
	upsertErr error
}

func (m *mockAvailabilityRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherAvailability, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.stored, nil
}

func (m *mockAvailabilityRepo) UpsertBatch(ctx context.Context, rows []models.TeacherAvailability) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = rows
	m.stored = rows
	return nil
}

func newAvailabilityService(repo *mockAvailabilityRepo) *AvailabilityService {
	return NewAvailabilityService(repo, AvailabilityConfig{DefaultStartHour: 9, DefaultEndHour: 17}, nil, zap.NewNop())
}

func TestAvailabilityService_List(t *testing.T) {
	t.Run("a teacher who never saved gets the weekday default", func(t *testing.T) {
		svc := newAvailabilityService(&mockAvailabilityRepo{})

		week, err := svc.List(context.Background(), "teacher-1")
		require.NoError(t, err)
		require.Len(t, week, 7)

		for _, row := range week {
			weekday := row.DayOfWeek >= 1 && row.DayOfWeek <= 5
			assert.Equal(t, weekday, row.IsAvailable, "day %d", row.DayOfWeek)
			assert.Equal(t, "09:00", row.StartTime)
			assert.Equal(t, "17:00", row.EndTime)
		}
	})

	t.Run("days missing from a saved set come back unavailable", func(t *testing.T) {
		svc := newAvailabilityService(&mockAvailabilityRepo{stored: []models.TeacherAvailability{
			{TeacherID: "teacher-1", DayOfWeek: 2, IsAvailable: true, StartTime: "10:00", EndTime: "14:00"},
		}})

		week, err := svc.List(context.Background(), "teacher-1")
		require.NoError(t, err)
		require.Len(t, week, 7)

		for _, row := range week {
			if row.DayOfWeek == 2 {
				assert.True(t, row.IsAvailable)
				assert.Equal(t, "10:00", row.StartTime)
				continue
			}
			assert.False(t, row.IsAvailable, "day %d", row.DayOfWeek)
		}
	})
}

func TestAvailabilityService_Upsert(t *testing.T) {
	t.Run("saves the editor state and returns the merged week", func(t *testing.T) {
		repo := &mockAvailabilityRepo{}
		svc := newAvailabilityService(repo)

		week, err := svc.Upsert(context.Background(), "teacher-1", dto.UpsertAvailabilityRequest{Days: []dto.AvailabilityDayPayload{
			{DayOfWeek: 1, IsAvailable: true, StartTime: "08:00", EndTime: "12:00"},
			{DayOfWeek: 6, IsAvailable: false, StartTime: "09:00", EndTime: "17:00"},
		}})
		require.NoError(t, err)

		require.Len(t, repo.upserted, 2)
		assert.Equal(t, "teacher-1", repo.upserted[0].TeacherID)
		require.Len(t, week, 7)
	})

	t.Run("rejects duplicate weekdays", func(t *testing.T) {
		svc := newAvailabilityService(&mockAvailabilityRepo{})

		_, err := svc.Upsert(context.Background(), "teacher-1", dto.UpsertAvailabilityRequest{Days: []dto.AvailabilityDayPayload{
			{DayOfWeek: 1, IsAvailable: true, StartTime: "08:00", EndTime: "12:00"},
			{DayOfWeek: 1, IsAvailable: true, StartTime: "13:00", EndTime: "15:00"},
		}})
		requireAppError(t, err, appErrors.ErrValidation.Code)
	})

	t.Run("rejects an inverted window on an available day", func(t *testing.T) {
		svc := newAvailabilityService(&mockAvailabilityRepo{})

		_, err := svc.Upsert(context.Background(), "teacher-1", dto.UpsertAvailabilityRequest{Days: []dto.AvailabilityDayPayload{
			{DayOfWeek: 1, IsAvailable: true, StartTime: "15:00", EndTime: "10:00"},
		}})
		requireAppError(t, err, appErrors.ErrValidation.Code)
	})

	t.Run("rejects a time off the hour grid", func(t *testing.T) {
		svc := newAvailabilityService(&mockAvailabilityRepo{})

		for _, start := range []string{"bad", "09:30"} {
			_, err := svc.Upsert(context.Background(), "teacher-1", dto.UpsertAvailabilityRequest{Days: []dto.AvailabilityDayPayload{
				{DayOfWeek: 1, IsAvailable: true, StartTime: start, EndTime: "12:00"},
			}})
			requireAppError(t, err, appErrors.ErrValidation.Code)
		}
	})

	t.Run("surfaces repository failures", func(t *testing.T) {
		svc := newAvailabilityService(&mockAvailabilityRepo{upsertErr: errors.New("boom")})

		_, err := svc.Upsert(context.Background(), "teacher-1", dto.UpsertAvailabilityRequest{Days: []dto.AvailabilityDayPayload{
			{DayOfWeek: 1, IsAvailable: true, StartTime: "09:00", EndTime: "12:00"},
		}})
		requireAppError(t, err, appErrors.ErrInternal.Code)
	})
}

func TestAvailabilityService_Windows(t *testing.T) {
	svc := newAvailabilityService(&mockAvailabilityRepo{stored: []models.TeacherAvailability{
		{TeacherID: "teacher-1", DayOfWeek: 1, IsAvailable: true, StartTime: "09:00", EndTime: "12:00"},
		{TeacherID: "teacher-1", DayOfWeek: 2, IsAvailable: false, StartTime: "09:00", EndTime: "17:00"},
	}})

	windows, err := svc.Windows(context.Background(), "teacher-1")
	require.NoError(t, err)

	require.Len(t, windows, 1)
	assert.Equal(t, 1, windows[0].Day)
	assert.Equal(t, "09:00", windows[0].Start)
	assert.Equal(t, "12:00", windows[0].End)
}
