package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Window is one weekday's bookable time range, hour-aligned and
// end-exclusive.
type Window struct {
	Day   int
	Start string
	End   string
}

// HourOf parses an "HH:00" time string into its hour component. Anything
// off the hour grid, "09:30" included, is rejected.
func HourOf(value string) (int, error) {
	head, tail, found := strings.Cut(value, ":")
	if !found || tail != "00" {
		return 0, &InvalidScheduleError{Reason: fmt.Sprintf("malformed time %q", value)}
	}
	hour, err := strconv.Atoi(head)
	if err != nil || hour < 0 || hour > 23 {
		return 0, &InvalidScheduleError{Reason: fmt.Sprintf("malformed time %q", value)}
	}
	return hour, nil
}

// FormatHour renders an hour as the canonical "HH:00" slot label.
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// SharedSlots intersects the windows of the selected days and enumerates
// the hourly slots every selected day can serve: [max(starts), min(ends)).
// The result is empty when the intersection is empty or when a selected day
// has no window at all; the caller then has to fall back to per-day times.
// Day order does not affect the result.
func SharedSlots(windows []Window, days []int) ([]string, error) {
	if len(days) == 0 {
		return nil, nil
	}

	byDay := make(map[int]Window, len(windows))
	for _, w := range windows {
		byDay[w.Day] = w
	}

	maxStart, minEnd := 0, 24
	for _, day := range days {
		w, ok := byDay[day]
		if !ok {
			return nil, nil
		}
		start, err := HourOf(w.Start)
		if err != nil {
			return nil, err
		}
		end, err := HourOf(w.End)
		if err != nil {
			return nil, err
		}
		if start > maxStart {
			maxStart = start
		}
		if end < minEnd {
			minEnd = end
		}
	}

	return hourlySlots(maxStart, minEnd), nil
}

// PerDaySlots enumerates each selected day's own hourly slots
// independently, keyed by weekday number.
func PerDaySlots(windows []Window, days []int) (map[int][]string, error) {
	byDay := make(map[int]Window, len(windows))
	for _, w := range windows {
		byDay[w.Day] = w
	}

	menus := make(map[int][]string, len(days))
	for _, day := range days {
		w, ok := byDay[day]
		if !ok {
			continue
		}
		start, err := HourOf(w.Start)
		if err != nil {
			return nil, err
		}
		end, err := HourOf(w.End)
		if err != nil {
			return nil, err
		}
		menus[day] = hourlySlots(start, end)
	}
	return menus, nil
}

func hourlySlots(start, end int) []string {
	if start >= end {
		return nil
	}
	slots := make([]string, 0, end-start)
	for h := start; h < end; h++ {
		slots = append(slots, FormatHour(h))
	}
	return slots
}
