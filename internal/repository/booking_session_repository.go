package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// BookingSessionRepository persists the dated session rows derived from a
// booking. teacher_id is denormalized onto each row so the scheduled-slot
// uniqueness constraint can live here.
type BookingSessionRepository struct {
	db *sqlx.DB
}

// NewBookingSessionRepository constructs the repository.
func NewBookingSessionRepository(db *sqlx.DB) *BookingSessionRepository {
	return &BookingSessionRepository{db: db}
}

type sessionInsertRow struct {
	models.BookingSession
	TeacherID string `db:"teacher_id"`
}

// BulkCreate inserts all session rows of a booking through the caller's
// transaction executor.
func (r *BookingSessionRepository) BulkCreate(ctx context.Context, exec sqlx.ExtContext, teacherID string, sessions []models.BookingSession) error {
	if len(sessions) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]sessionInsertRow, 0, len(sessions))
	for i := range sessions {
		if sessions[i].ID == "" {
			sessions[i].ID = uuid.NewString()
		}
		sessions[i].CreatedAt = now
		sessions[i].UpdatedAt = now
		rows = append(rows, sessionInsertRow{BookingSession: sessions[i], TeacherID: teacherID})
	}

	const query = `INSERT INTO booking_sessions (id, booking_id, teacher_id, session_date, session_time, session_number, status, meeting_link, created_at, updated_at)
		VALUES (:id, :booking_id, :teacher_id, :session_date, :session_time, :session_number, :status, :meeting_link, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, rows); err != nil {
		return fmt.Errorf("insert booking sessions: %w", err)
	}
	return nil
}

// ListByBooking returns a booking's sessions in session order.
func (r *BookingSessionRepository) ListByBooking(ctx context.Context, bookingID string) ([]models.BookingSession, error) {
	const query = `SELECT id, booking_id, session_date, session_time, session_number, status, meeting_link, created_at, updated_at
		FROM booking_sessions WHERE booking_id = $1 ORDER BY session_number`
	sessions := []models.BookingSession{}
	if err := r.db.SelectContext(ctx, &sessions, query, bookingID); err != nil {
		return nil, fmt.Errorf("list booking sessions: %w", err)
	}
	return sessions, nil
}

// FindByBookingAndNumber returns one session of a booking.
func (r *BookingSessionRepository) FindByBookingAndNumber(ctx context.Context, bookingID string, number int) (*models.BookingSession, error) {
	const query = `SELECT id, booking_id, session_date, session_time, session_number, status, meeting_link, created_at, updated_at
		FROM booking_sessions WHERE booking_id = $1 AND session_number = $2`
	var session models.BookingSession
	if err := r.db.GetContext(ctx, &session, query, bookingID, number); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateStatus transitions one session's status.
func (r *BookingSessionRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.SessionStatus) error {
	const query = `UPDATE booking_sessions SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := exec.ExecContext(ctx, query, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return nil
}

// SetMeetingLinkByBooking propagates the booking's meeting link onto every
// session row.
func (r *BookingSessionRepository) SetMeetingLinkByBooking(ctx context.Context, exec sqlx.ExtContext, bookingID, link string) error {
	const query = `UPDATE booking_sessions SET meeting_link = $1, updated_at = $2 WHERE booking_id = $3`
	if _, err := exec.ExecContext(ctx, query, link, time.Now().UTC(), bookingID); err != nil {
		return fmt.Errorf("set session meeting links: %w", err)
	}
	return nil
}

// CancelRemainingByBooking cancels every still-scheduled session of a
// booking. Rows stay behind as the audit trail; cancelled status drops them
// out of the live-slot index so the freed slots can be rebooked.
func (r *BookingSessionRepository) CancelRemainingByBooking(ctx context.Context, exec sqlx.ExtContext, bookingID string) error {
	const query = `UPDATE booking_sessions SET status = 'cancelled', updated_at = $1
		WHERE booking_id = $2 AND status = 'scheduled'`
	if _, err := exec.ExecContext(ctx, query, time.Now().UTC(), bookingID); err != nil {
		return fmt.Errorf("cancel booking sessions: %w", err)
	}
	return nil
}

// CountByBookingAndStatus counts a booking's sessions in the given status.
func (r *BookingSessionRepository) CountByBookingAndStatus(ctx context.Context, bookingID string, status models.SessionStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM booking_sessions WHERE booking_id = $1 AND status = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, bookingID, status); err != nil {
		return 0, fmt.Errorf("count booking sessions: %w", err)
	}
	return count, nil
}

// CountScheduledAtSlot counts live sessions already holding a teacher's
// (date, time) slot. Run inside the booking transaction it backs the
// check-and-reserve step; the partial unique index remains the backstop
// under concurrency.
func (r *BookingSessionRepository) CountScheduledAtSlot(ctx context.Context, exec sqlx.ExtContext, teacherID string, date time.Time, sessionTime string) (int, error) {
	const query = `SELECT COUNT(*) FROM booking_sessions
		WHERE teacher_id = $1 AND session_date = $2 AND session_time = $3 AND status = 'scheduled'`
	var count int
	if err := sqlx.GetContext(ctx, exec, &count, query, teacherID, date, sessionTime); err != nil {
		return 0, fmt.Errorf("count scheduled slot: %w", err)
	}
	return count, nil
}
