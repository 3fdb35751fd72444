package dto

// AvailabilityDayPayload is one weekday row in the teacher's availability
// editor. Times are hour-aligned "HH:00" strings.
type AvailabilityDayPayload struct {
	DayOfWeek   int    `json:"day_of_week" validate:"min=0,max=6"`
	IsAvailable bool   `json:"is_available"`
	StartTime   string `json:"start_time" validate:"required,hourslot"`
	EndTime     string `json:"end_time" validate:"required,hourslot"`
}

// UpsertAvailabilityRequest replaces the teacher's weekly window set. At
// most one entry per weekday.
type UpsertAvailabilityRequest struct {
	Days []AvailabilityDayPayload `json:"days" validate:"required,min=1,max=7,dive"`
}
