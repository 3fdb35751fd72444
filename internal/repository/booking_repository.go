package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. The scheduled-slot index surfaces double bookings this way.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// BookingRepository persists booking rows.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs the repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking row. It runs against the passed executor so the
// caller can keep the booking and its sessions inside one transaction.
func (r *BookingRepository) Create(ctx context.Context, exec sqlx.ExtContext, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if len(booking.PerDayTimes) == 0 {
		booking.PerDayTimes = []byte("{}")
	}

	const query = `INSERT INTO bookings (id, gig_id, student_id, parent_id, teacher_id, status, scheduled_start_date,
		preferred_days, preferred_time, per_day_times, total_sessions,
		location_address, location_lat, location_lng, meeting_link, created_at, updated_at)
		VALUES (:id, :gig_id, :student_id, :parent_id, :teacher_id, :status, :scheduled_start_date,
		:preferred_days, :preferred_time, :per_day_times, :total_sessions,
		:location_address, :location_lat, :location_lng, :meeting_link, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, booking); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// FindByID returns a booking by id.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	const query = `SELECT id, gig_id, student_id, parent_id, teacher_id, status, scheduled_start_date,
		preferred_days, preferred_time, per_day_times, total_sessions,
		location_address, location_lat, location_lng, meeting_link, created_at, updated_at
		FROM bookings WHERE id = $1`
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// List returns bookings matching the filter with a total count.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1
	if filter.ParentID != "" {
		where += " AND parent_id = $" + strconv.Itoa(idx)
		args = append(args, filter.ParentID)
		idx++
	}
	if filter.TeacherID != "" {
		where += " AND teacher_id = $" + strconv.Itoa(idx)
		args = append(args, filter.TeacherID)
		idx++
	}
	if filter.StudentID != "" {
		where += " AND student_id = $" + strconv.Itoa(idx)
		args = append(args, filter.StudentID)
		idx++
	}
	if filter.Status != "" {
		where += " AND status = $" + strconv.Itoa(idx)
		args = append(args, filter.Status)
		idx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bookings"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	query := `SELECT id, gig_id, student_id, parent_id, teacher_id, status, scheduled_start_date,
		preferred_days, preferred_time, per_day_times, total_sessions,
		location_address, location_lat, location_lng, meeting_link, created_at, updated_at
		FROM bookings` + where + " ORDER BY created_at DESC"
	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query += " LIMIT $" + strconv.Itoa(idx) + " OFFSET $" + strconv.Itoa(idx+1)
		args = append(args, filter.PageSize, offset)
	}

	bookings := []models.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, total, nil
}

// UpdateStatus transitions a booking's status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.BookingStatus) error {
	const query = `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := exec.ExecContext(ctx, query, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}

// SetMeetingLink stores the meeting link provided on acceptance.
func (r *BookingRepository) SetMeetingLink(ctx context.Context, exec sqlx.ExtContext, id, link string) error {
	const query = `UPDATE bookings SET meeting_link = $1, updated_at = $2 WHERE id = $3`
	if _, err := exec.ExecContext(ctx, query, link, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("set booking meeting link: %w", err)
	}
	return nil
}
