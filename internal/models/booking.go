package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending        BookingStatus = "pending"
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusCancelled      BookingStatus = "cancelled"
)

// Booking is a parent's request to enroll a student in a gig together with
// the derived weekly cadence. Cancellation is a status change, never a row
// removal.
type Booking struct {
	ID                 string         `db:"id" json:"id"`
	GigID              string         `db:"gig_id" json:"gig_id"`
	StudentID          string         `db:"student_id" json:"student_id"`
	ParentID           string         `db:"parent_id" json:"parent_id"`
	TeacherID          string         `db:"teacher_id" json:"teacher_id"`
	Status             BookingStatus  `db:"status" json:"status"`
	ScheduledStartDate time.Time      `db:"scheduled_start_date" json:"scheduled_start_date"`
	PreferredDays      pq.Int64Array  `db:"preferred_days" json:"preferred_days"`
	PreferredTime      *string        `db:"preferred_time" json:"preferred_time,omitempty"`
	PerDayTimes        types.JSONText `db:"per_day_times" json:"per_day_times,omitempty"`
	TotalSessions      int            `db:"total_sessions" json:"total_sessions"`
	LocationAddress    *string        `db:"location_address" json:"location_address,omitempty"`
	LocationLat        *float64       `db:"location_lat" json:"location_lat,omitempty"`
	LocationLng        *float64       `db:"location_lng" json:"location_lng,omitempty"`
	MeetingLink        *string        `db:"meeting_link" json:"meeting_link,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// BookingWithSessions bundles a booking with its generated session rows.
type BookingWithSessions struct {
	Booking  Booking          `json:"booking"`
	Sessions []BookingSession `json:"sessions"`
}

// BookingFilter describes query params for listing bookings.
type BookingFilter struct {
	ParentID  string
	TeacherID string
	StudentID string
	Status    BookingStatus
	Page      int
	PageSize  int
}
