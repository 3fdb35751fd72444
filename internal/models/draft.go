package models

import "time"

// BookingDraft captures an in-progress booking form so a parent can resume
// it later. Drafts live in Redis keyed by (parent, gig) and expire on TTL;
// they are separate from committed Booking rows.
type BookingDraft struct {
	ParentID        string         `json:"parent_id"`
	GigID           string         `json:"gig_id"`
	StudentID       string         `json:"student_id,omitempty"`
	SessionsPerWeek int            `json:"sessions_per_week,omitempty"`
	Weekdays        []int          `json:"weekdays,omitempty"`
	SameTimeForAll  bool           `json:"same_time_for_all"`
	PreferredTime   string         `json:"preferred_time,omitempty"`
	PerDayTimes     map[int]string `json:"per_day_times,omitempty"`
	StartDate       *time.Time     `json:"start_date,omitempty"`
	LocationAddress string         `json:"location_address,omitempty"`
	LocationLat     *float64       `json:"location_lat,omitempty"`
	LocationLng     *float64       `json:"location_lng,omitempty"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
