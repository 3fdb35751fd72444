package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedSlotsIntersection(t *testing.T) {
	windows := []Window{
		{Day: 1, Start: "09:00", End: "17:00"},
		{Day: 3, Start: "10:00", End: "15:00"},
	}

	slots, err := SharedSlots(windows, []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00", "12:00", "13:00", "14:00"}, slots)
}

func TestSharedSlotsNoOverlap(t *testing.T) {
	// Mon morning only, Wed afternoon only: the intersection is empty and
	// the caller has to force per-day time selection.
	windows := []Window{
		{Day: 1, Start: "09:00", End: "12:00"},
		{Day: 3, Start: "14:00", End: "17:00"},
	}

	slots, err := SharedSlots(windows, []int{1, 3})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSharedSlotsCommutativeInDayOrder(t *testing.T) {
	windows := []Window{
		{Day: 1, Start: "08:00", End: "16:00"},
		{Day: 2, Start: "10:00", End: "18:00"},
		{Day: 5, Start: "09:00", End: "13:00"},
	}

	forward, err := SharedSlots(windows, []int{1, 2, 5})
	require.NoError(t, err)
	reversed, err := SharedSlots(windows, []int{5, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, forward, reversed)
}

func TestSharedSlotsMissingDayWindow(t *testing.T) {
	windows := []Window{{Day: 1, Start: "09:00", End: "17:00"}}

	slots, err := SharedSlots(windows, []int{1, 4})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSharedSlotsNoDaysSelected(t *testing.T) {
	slots, err := SharedSlots([]Window{{Day: 1, Start: "09:00", End: "17:00"}}, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSharedSlotsMalformedTime(t *testing.T) {
	_, err := SharedSlots([]Window{{Day: 1, Start: "morning", End: "17:00"}}, []int{1})
	require.Error(t, err)
}

func TestPerDaySlotsIndependentMenus(t *testing.T) {
	windows := []Window{
		{Day: 1, Start: "09:00", End: "12:00"},
		{Day: 3, Start: "14:00", End: "17:00"},
	}

	menus, err := PerDaySlots(windows, []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, menus[1])
	assert.Equal(t, []string{"14:00", "15:00", "16:00"}, menus[3])
}

func TestPerDaySlotsSkipsDaysWithoutWindow(t *testing.T) {
	windows := []Window{{Day: 2, Start: "09:00", End: "11:00"}}

	menus, err := PerDaySlots(windows, []int{2, 6})
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Contains(t, menus, 2)
}

func TestHourOf(t *testing.T) {
	hour, err := HourOf("07:00")
	require.NoError(t, err)
	assert.Equal(t, 7, hour)

	_, err = HourOf("25:00")
	require.Error(t, err)
	_, err = HourOf("noon")
	require.Error(t, err)
}

func TestHourOfRejectsOffGridMinutes(t *testing.T) {
	for _, value := range []string{"09:30", "09:1", "09:000", "09:"} {
		_, err := HourOf(value)
		require.Error(t, err, value)
	}
}

func TestFormatHourZeroPads(t *testing.T) {
	assert.Equal(t, "09:00", FormatHour(9))
	assert.Equal(t, "14:00", FormatHour(14))
}
