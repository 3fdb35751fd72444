package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateSessionDatesMonWedFromMonday(t *testing.T) {
	// 2024-01-01 is a Monday.
	dates, err := GenerateSessionDates(date(2024, time.January, 1), []int{1, 3}, 4)
	require.NoError(t, err)

	expected := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 3),
		date(2024, time.January, 8),
		date(2024, time.January, 10),
	}
	assert.Equal(t, expected, dates)
}

func TestGenerateSessionDatesStartNotOnSelectedWeekday(t *testing.T) {
	// 2024-01-02 is a Tuesday; first emitted date must be the following Wednesday.
	dates, err := GenerateSessionDates(date(2024, time.January, 2), []int{3}, 2)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, date(2024, time.January, 3), dates[0])
	assert.Equal(t, date(2024, time.January, 10), dates[1])
}

func TestGenerateSessionDatesStartDateIncluded(t *testing.T) {
	start := date(2024, time.March, 3) // a Sunday
	dates, err := GenerateSessionDates(start, []int{0}, 1)
	require.NoError(t, err)
	assert.Equal(t, start, dates[0])
}

func TestGenerateSessionDatesEmptyWeekdaysFailsFast(t *testing.T) {
	_, err := GenerateSessionDates(date(2024, time.January, 1), nil, 4)
	require.Error(t, err)
	var scheduleErr *InvalidScheduleError
	assert.ErrorAs(t, err, &scheduleErr)
}

func TestGenerateSessionDatesZeroCountRejected(t *testing.T) {
	_, err := GenerateSessionDates(date(2024, time.January, 1), []int{1}, 0)
	require.Error(t, err)
}

func TestGenerateSessionDatesWeekdayOutOfRange(t *testing.T) {
	_, err := GenerateSessionDates(date(2024, time.January, 1), []int{7}, 1)
	require.Error(t, err)
}

func TestGenerateSessionDatesProperties(t *testing.T) {
	cases := []struct {
		name     string
		start    time.Time
		weekdays []int
		count    int
	}{
		{"single day", date(2024, time.February, 14), []int{5}, 8},
		{"weekend", date(2024, time.June, 1), []int{0, 6}, 10},
		{"every day", date(2023, time.December, 31), []int{0, 1, 2, 3, 4, 5, 6}, 14},
		{"three spread days", date(2024, time.July, 4), []int{1, 3, 5}, 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dates, err := GenerateSessionDates(tc.start, tc.weekdays, tc.count)
			require.NoError(t, err)
			require.Len(t, dates, tc.count)

			allowed := map[int]bool{}
			for _, d := range tc.weekdays {
				allowed[d] = true
			}

			startDay := DateOnly(tc.start)
			for i, d := range dates {
				assert.True(t, allowed[int(d.Weekday())], "date %s falls on unselected weekday", d)
				assert.False(t, d.Before(startDay), "date %s before start", d)
				if i > 0 {
					assert.True(t, d.After(dates[i-1]), "dates not strictly increasing")
				}
			}
		})
	}
}

func TestGenerateSessionDatesDeterministic(t *testing.T) {
	first, err := GenerateSessionDates(date(2024, time.May, 6), []int{2, 4}, 6)
	require.NoError(t, err)
	second, err := GenerateSessionDates(date(2024, time.May, 6), []int{2, 4}, 6)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDateOnlyNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	stamp := time.Date(2024, time.April, 10, 23, 30, 0, 0, loc)
	assert.Equal(t, date(2024, time.April, 10), DateOnly(stamp))
}
