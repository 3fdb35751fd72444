package dto

import "time"

// LocationPayload pins in-person sessions to a meeting point.
type LocationPayload struct {
	Address string  `json:"address" validate:"required"`
	Lat     float64 `json:"lat" validate:"required"`
	Lng     float64 `json:"lng" validate:"required"`
}

// CreateBookingRequest is the parent's booking submission.
type CreateBookingRequest struct {
	GigID           string           `json:"gig_id" validate:"required"`
	StudentID       string           `json:"student_id" validate:"required"`
	SessionsPerWeek int              `json:"sessions_per_week" validate:"required,min=1,max=7"`
	Weekdays        []int            `json:"weekdays" validate:"required,min=1,dive,min=0,max=6"`
	SameTimeForAll  bool             `json:"same_time_for_all"`
	PreferredTime   string           `json:"preferred_time,omitempty"`
	PerDayTimes     map[int]string   `json:"per_day_times,omitempty"`
	StartDate       time.Time        `json:"start_date" validate:"required"`
	Location        *LocationPayload `json:"location,omitempty"`
}

// AcceptBookingRequest optionally attaches the meeting link the teacher
// supplies while accepting.
type AcceptBookingRequest struct {
	MeetingLink string `json:"meeting_link,omitempty" validate:"omitempty,url"`
}

// SlotMenuResponse is the resolver output backing the booking form's time
// picker.
type SlotMenuResponse struct {
	AvailableDays []int            `json:"available_days"`
	SharedSlots   []string         `json:"shared_slots"`
	PerDaySlots   map[int][]string `json:"per_day_slots"`
}

// SessionDatePreview lets the form show the computed calendar before
// submission.
type SessionDatePreview struct {
	SessionNumber int       `json:"session_number"`
	SessionDate   time.Time `json:"session_date"`
	SessionTime   string    `json:"session_time"`
}
