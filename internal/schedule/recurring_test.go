package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobooking/internal/domain"
)

// 2026-03-02 is a Monday, 2026-03-06 a Friday.
var (
	monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	friday = time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
)

func TestResolveDay_SimpleWindow(t *testing.T) {
	windows := []domain.Availability{
		{ID: 1, Day: domain.DayMon, Start: "10:00", End: "18:00"},
		{ID: 2, Day: domain.DayTue, Start: "09:00", End: "12:00"}, // other day, ignored
	}

	ranges, err := ResolveDay(windows, monday, 0)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, monday.Add(10*time.Hour), ranges[0].Start)
	assert.Equal(t, monday.Add(18*time.Hour), ranges[0].End)
}

func TestResolveDay_OffsetShiftsToUTC(t *testing.T) {
	// local 10:00 with a +2h offset is 08:00 UTC
	windows := []domain.Availability{{ID: 1, Day: domain.DayMon, Start: "10:00", End: "18:00"}}

	ranges, err := ResolveDay(windows, monday, 2)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, monday.Add(8*time.Hour), ranges[0].Start)
	assert.Equal(t, monday.Add(16*time.Hour), ranges[0].End)
}

func TestResolveDay_MidnightCrossing(t *testing.T) {
	// 22:00-02:00 local with +2h offset: the UTC end lands one calendar day
	// after the UTC start
	windows := []domain.Availability{{ID: 1, Day: domain.DayFri, Start: "22:00", End: "02:00"}}

	ranges, err := ResolveDay(windows, friday, 2)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, friday.Add(20*time.Hour), ranges[0].Start)
	assert.Equal(t, friday.Add(24*time.Hour), ranges[0].End)
	assert.Equal(t, ranges[0].Start.Day()+1, ranges[0].End.Day())
}

func TestResolveDay_StartReanchoredToCivilDay(t *testing.T) {
	// Subtracting a large offset would push 01:00 local before the civil
	// day's midnight; the start stays anchored to the requested day.
	windows := []domain.Availability{{ID: 1, Day: domain.DayMon, Start: "01:00", End: "03:00"}}

	ranges, err := ResolveDay(windows, monday, 2)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, monday.Add(23*time.Hour), ranges[0].Start)
	assert.Equal(t, monday.Add(25*time.Hour), ranges[0].End)
	assert.True(t, ranges[0].End.After(ranges[0].Start))
}

func TestResolveDay_MidnightEndMarker(t *testing.T) {
	// end "00:00" means end-of-day, not a zero-length window
	windows := []domain.Availability{{ID: 1, Day: domain.DayMon, Start: "20:00", End: "00:00"}}

	ranges, err := ResolveDay(windows, monday, 0)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, monday.Add(20*time.Hour), ranges[0].Start)
	assert.Equal(t, monday.Add(24*time.Hour), ranges[0].End)
}

func TestResolveDay_BadClockString(t *testing.T) {
	windows := []domain.Availability{{ID: 1, Day: domain.DayMon, Start: "25:00", End: "26:00"}}
	_, err := ResolveDay(windows, monday, 0)
	assert.ErrorIs(t, err, ErrFormat)
}
