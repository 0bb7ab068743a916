package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobooking/internal/domain"
)

func testConfig() SearchConfig {
	return SearchConfig{
		OffsetHours:    0,
		OperatingOpen:  10 * 60,
		OperatingClose: 22 * 60,
		StepMinutes:    30,
		HorizonDays:    14,
		MaxResults:     2,
	}
}

func TestFindNextSlots_SkipsPastBooking(t *testing.T) {
	// availability mon 10:00-18:00, booking 12:00-13:00; asking for 60
	// minutes at 12:30 must land on 13:00-14:00
	windows := []domain.Availability{{ID: 1, Day: domain.DayMon, Start: "10:00", End: "18:00"}}
	busy := []Range{{Start: monday.Add(12 * time.Hour), End: monday.Add(13 * time.Hour)}}

	slots, err := FindNextSlots(testConfig(), SearchRequest{
		From:            monday.Add(12*time.Hour + 30*time.Minute),
		DurationMinutes: 60,
		Windows:         windows,
		FonicoBusy:      busy,
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, monday.Add(13*time.Hour), slots[0].Start)
	assert.Equal(t, monday.Add(14*time.Hour), slots[0].End)
	assert.Equal(t, monday.Add(14*time.Hour), slots[1].Start)
}

func TestFindNextSlots_MidnightCrossingWindow(t *testing.T) {
	// availability fri 22:00-02:00, closing at 04:00: a 90-minute slot at
	// 23:00 runs into the next calendar day
	cfg := testConfig()
	cfg.OperatingClose = 4 * 60
	windows := []domain.Availability{{ID: 1, Day: domain.DayFri, Start: "22:00", End: "02:00"}}

	slots, err := FindNextSlots(cfg, SearchRequest{
		From:            friday.Add(23 * time.Hour),
		DurationMinutes: 90,
		Windows:         windows,
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, friday.Add(23*time.Hour), slots[0].Start)
	assert.Equal(t, friday.Add(24*time.Hour+30*time.Minute), slots[0].End)
	// the second one continues inside the same window, past midnight
	assert.Equal(t, friday.Add(24*time.Hour+30*time.Minute), slots[1].Start)
}

func TestFindNextSlots_DurationLargerThanAnyWindow(t *testing.T) {
	// no window can ever hold it: empty result, never an error
	windows := []domain.Availability{{ID: 1, Day: domain.DayMon, Start: "10:00", End: "12:00"}}

	slots, err := FindNextSlots(testConfig(), SearchRequest{
		From:            monday.Add(10 * time.Hour),
		DurationMinutes: 180,
		Windows:         windows,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFindNextSlots_NoAvailabilityAtAll(t *testing.T) {
	slots, err := FindNextSlots(testConfig(), SearchRequest{
		From:            monday.Add(10 * time.Hour),
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFindNextSlots_AdvancesToNextWeek(t *testing.T) {
	// the whole of monday is booked solid; next hit is next monday
	windows := []domain.Availability{{ID: 1, Day: domain.DayMon, Start: "10:00", End: "12:00"}}
	busy := []Range{{Start: monday.Add(10 * time.Hour), End: monday.Add(12 * time.Hour)}}

	cfg := testConfig()
	cfg.MaxResults = 1
	slots, err := FindNextSlots(cfg, SearchRequest{
		From:            monday.Add(10 * time.Hour),
		DurationMinutes: 60,
		Windows:         windows,
		FonicoBusy:      busy,
	})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, monday.AddDate(0, 0, 7).Add(10*time.Hour), slots[0].Start)
}

func TestFindNextSlots_PicksFreeStudio(t *testing.T) {
	windows := []domain.Availability{{ID: 1, Day: domain.DayMon, Start: "10:00", End: "18:00"}}
	studioBusy := map[int64][]Range{
		1: {{Start: monday.Add(10 * time.Hour), End: monday.Add(18 * time.Hour)}}, // studio 1 full
		2: nil,
	}

	cfg := testConfig()
	cfg.MaxResults = 1
	slots, err := FindNextSlots(cfg, SearchRequest{
		From:            monday.Add(10 * time.Hour),
		DurationMinutes: 60,
		Windows:         windows,
		StudioIDs:       []int64{1, 2},
		StudioBusy:      studioBusy,
	})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, int64(2), slots[0].StudioID)
}

func TestFindNextSlots_RespectsOperatingHours(t *testing.T) {
	// availability says 08:00 but the studio opens at 10:00
	windows := []domain.Availability{{ID: 1, Day: domain.DayMon, Start: "08:00", End: "18:00"}}

	cfg := testConfig()
	cfg.MaxResults = 1
	slots, err := FindNextSlots(cfg, SearchRequest{
		From:            monday.Add(8 * time.Hour),
		DurationMinutes: 60,
		Windows:         windows,
	})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.False(t, slots[0].Start.Before(monday.Add(10*time.Hour)))
}

func TestFindNextSlots_InvalidDuration(t *testing.T) {
	_, err := FindNextSlots(testConfig(), SearchRequest{From: monday, DurationMinutes: 0})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

// Randomized bookings: returned slots must never intersect anything busy and
// must stay inside a resolved availability window.
func TestFindNextSlots_NeverOverlapsBusy(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	windows := []domain.Availability{
		{ID: 1, Day: domain.DayMon, Start: "10:00", End: "18:00"},
		{ID: 2, Day: domain.DayTue, Start: "10:00", End: "18:00"},
		{ID: 3, Day: domain.DayWed, Start: "12:00", End: "20:00"},
	}
	cfg := testConfig()
	cfg.MaxResults = 3

	for trial := 0; trial < 100; trial++ {
		var busy []Range
		for i := 0; i < rng.Intn(12); i++ {
			day := rng.Intn(3)
			startM := 9*60 + rng.Intn(11*60)
			lenM := 15 * (1 + rng.Intn(12))
			s := monday.AddDate(0, 0, day).Add(time.Duration(startM) * time.Minute)
			busy = append(busy, Range{Start: s, End: s.Add(time.Duration(lenM) * time.Minute)})
		}

		slots, err := FindNextSlots(cfg, SearchRequest{
			From:            monday.Add(10 * time.Hour),
			DurationMinutes: 60,
			Windows:         windows,
			FonicoBusy:      busy,
		})
		require.NoError(t, err)

		for _, slot := range slots {
			assert.False(t, HasConflict(slot.Start, slot.End, busy),
				"trial %d: slot %v overlaps a busy range", trial, slot)

			inWindow := false
			for off := -1; off <= 14 && !inWindow; off++ {
				day := slot.Start.AddDate(0, 0, off)
				ranges, err := ResolveDay(windows, day, cfg.OffsetHours)
				require.NoError(t, err)
				for _, r := range ranges {
					if !slot.Start.Before(r.Start) && !slot.End.After(r.End) {
						inWindow = true
						break
					}
				}
			}
			assert.True(t, inWindow, "trial %d: slot %v outside availability", trial, slot)
		}
	}
}

func TestCheckRange(t *testing.T) {
	cfg := testConfig()
	windows := []domain.Availability{{ID: 1, Day: domain.DayMon, Start: "10:00", End: "18:00"}}
	fonicoBusy := []Range{{Start: monday.Add(12 * time.Hour), End: monday.Add(13 * time.Hour)}}

	ok, err := CheckRange(cfg, monday.Add(10*time.Hour), monday.Add(11*time.Hour), windows, fonicoBusy, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// touching the booking boundary is fine
	ok, err = CheckRange(cfg, monday.Add(13*time.Hour), monday.Add(14*time.Hour), windows, fonicoBusy, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// overlapping the booking is not
	ok, err = CheckRange(cfg, monday.Add(12*time.Hour+30*time.Minute), monday.Add(13*time.Hour+30*time.Minute), windows, fonicoBusy, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// outside the availability window
	ok, err = CheckRange(cfg, monday.Add(18*time.Hour), monday.Add(19*time.Hour), windows, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// studio conflict disqualifies too
	ok, err = CheckRange(cfg, monday.Add(10*time.Hour), monday.Add(11*time.Hour), windows, nil, fonicoBusy[:0])
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = CheckRange(cfg, monday.Add(12*time.Hour), monday.Add(13*time.Hour), windows, nil,
		[]Range{{Start: monday.Add(12 * time.Hour), End: monday.Add(13 * time.Hour)}})
	require.NoError(t, err)
	assert.False(t, ok)

	// degenerate range is a hard error
	_, err = CheckRange(cfg, monday.Add(10*time.Hour), monday.Add(10*time.Hour), windows, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
