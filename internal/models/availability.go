package models

import "time"

// DayNames maps weekday numbers (0 = Sunday) to display names.
var DayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// TeacherAvailability is one weekly availability window. One row per
// (teacher, day_of_week); toggled unavailable rather than deleted.
type TeacherAvailability struct {
	ID          string    `db:"id" json:"id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	DayOfWeek   int       `db:"day_of_week" json:"day_of_week"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AvailableDayNumbers filters a weekly availability set down to the weekday
// numbers a parent may select.
func AvailableDayNumbers(rows []TeacherAvailability) []int {
	days := make([]int, 0, len(rows))
	for _, row := range rows {
		if row.IsAvailable {
			days = append(days, row.DayOfWeek)
		}
	}
	return days
}
