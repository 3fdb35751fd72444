// Package schedule holds the pure scheduling computations behind bookings:
// session date generation and time-slot resolution. Everything here is
// deterministic, day-granular and free of I/O.
package schedule

import "time"

// Schedule input errors. Callers map these onto their validation taxonomy.
type InvalidScheduleError struct {
	Reason string
}

func (e *InvalidScheduleError) Error() string {
	return "invalid schedule input: " + e.Reason
}

// GenerateSessionDates walks forward day by day from start (inclusive) and
// emits each date whose weekday is in weekdays, until count dates have been
// produced. Weekday numbers follow time.Weekday (0 = Sunday). The weekday
// set must be non-empty, otherwise the walk would never terminate.
func GenerateSessionDates(start time.Time, weekdays []int, count int) ([]time.Time, error) {
	if len(weekdays) == 0 {
		return nil, &InvalidScheduleError{Reason: "no weekdays selected"}
	}
	if count < 1 {
		return nil, &InvalidScheduleError{Reason: "session count must be at least 1"}
	}

	selected := [7]bool{}
	for _, day := range weekdays {
		if day < 0 || day > 6 {
			return nil, &InvalidScheduleError{Reason: "weekday out of range"}
		}
		selected[day] = true
	}

	dates := make([]time.Time, 0, count)
	current := DateOnly(start)
	for len(dates) < count {
		if selected[int(current.Weekday())] {
			dates = append(dates, current)
		}
		current = current.AddDate(0, 0, 1)
	}
	return dates, nil
}

// DateOnly truncates a timestamp to its calendar date in UTC. All schedule
// comparisons happen at this granularity.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
