package models

import "time"

// SessionStatus represents the lifecycle of a single booked session.
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// BookingSession is one concrete dated occurrence within a booking.
// SessionNumber is 1-based and matches chronological order. Rows survive a
// booking's cancellation as an audit trail.
type BookingSession struct {
	ID            string        `db:"id" json:"id"`
	BookingID     string        `db:"booking_id" json:"booking_id"`
	SessionDate   time.Time     `db:"session_date" json:"session_date"`
	SessionTime   string        `db:"session_time" json:"session_time"`
	SessionNumber int           `db:"session_number" json:"session_number"`
	Status        SessionStatus `db:"status" json:"status"`
	MeetingLink   *string       `db:"meeting_link" json:"meeting_link,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}
