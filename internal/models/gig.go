package models

import "time"

// ClassType describes how a gig's sessions are delivered.
type ClassType string

const (
	ClassTypeOnline   ClassType = "online"
	ClassTypeInPerson ClassType = "in_person"
	ClassTypeHybrid   ClassType = "hybrid"
)

// RequiresLocation reports whether bookings for this class type must carry a
// session location.
func (t ClassType) RequiresLocation() bool {
	return t == ClassTypeInPerson || t == ClassTypeHybrid
}

// Gig is a teacher's published course offering.
type Gig struct {
	ID                   string    `db:"id" json:"id"`
	TeacherID            string    `db:"teacher_id" json:"teacher_id"`
	Title                string    `db:"title" json:"title"`
	Subject              string    `db:"subject" json:"subject"`
	Description          string    `db:"description" json:"description"`
	PricePerSession      float64   `db:"price_per_session" json:"price_per_session"`
	TotalSessions        int       `db:"total_sessions" json:"total_sessions"`
	SessionDurationHours int       `db:"session_duration_hours" json:"session_duration_hours"`
	MaxStudents          int       `db:"max_students" json:"max_students"`
	ClassType            ClassType `db:"class_type" json:"class_type"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// GigDetail enriches Gig with the teacher's display profile for the booking
// form.
type GigDetail struct {
	Gig
	TeacherName   string  `db:"teacher_name" json:"teacher_name"`
	TeacherAvatar *string `db:"teacher_avatar" json:"teacher_avatar,omitempty"`
}
