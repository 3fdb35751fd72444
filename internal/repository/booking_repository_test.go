package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

func TestBookingRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))

	booking := &models.Booking{
		GigID:         "gig-1",
		StudentID:     "student-1",
		ParentID:      "parent-1",
		TeacherID:     "teacher-1",
		Status:        models.BookingStatusPending,
		PreferredDays: pq.Int64Array{1, 3},
		TotalSessions: 4,
	}
	err := repo.Create(context.Background(), db, booking)
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.False(t, booking.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	rows := sqlmock.NewRows([]string{"id", "gig_id", "student_id", "parent_id", "teacher_id", "status", "scheduled_start_date",
		"preferred_days", "preferred_time", "per_day_times", "total_sessions",
		"location_address", "location_lat", "location_lng", "meeting_link", "created_at", "updated_at"}).
		AddRow("b1", "gig-1", "student-1", "parent-1", "teacher-1", "pending", time.Now(),
			pq.Int64Array{1, 3}, "10:00", []byte("{}"), 4, nil, nil, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs("b1").
		WillReturnRows(rows)

	booking, err := repo.FindByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, pq.Int64Array{1, 3}, booking.PreferredDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("parent-1", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	rows := sqlmock.NewRows([]string{"id", "gig_id", "student_id", "parent_id", "teacher_id", "status", "scheduled_start_date",
		"preferred_days", "preferred_time", "per_day_times", "total_sessions",
		"location_address", "location_lat", "location_lng", "meeting_link", "created_at", "updated_at"}).
		AddRow("b1", "gig-1", "student-1", "parent-1", "teacher-1", "pending", time.Now(),
			pq.Int64Array{1}, nil, []byte("{}"), 1, nil, nil, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE 1=1 AND parent_id").
		WithArgs("parent-1", "pending", 20, 0).
		WillReturnRows(rows)

	bookings, total, err := repo.List(context.Background(), models.BookingFilter{
		ParentID: "parent-1",
		Status:   models.BookingStatusPending,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(models.BookingStatusCancelled, sqlmock.AnyArg(), "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), db, "b1", models.BookingStatusCancelled)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
}
