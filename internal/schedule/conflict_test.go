package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func TestOverlaps_HalfOpen(t *testing.T) {
	// touching endpoints are not conflicts
	assert.False(t, Overlaps(at(10, 0), at(11, 0), at(11, 0), at(12, 0)))
	assert.False(t, Overlaps(at(11, 0), at(12, 0), at(10, 0), at(11, 0)))

	// one-minute overlap is
	assert.True(t, Overlaps(at(10, 0), at(11, 1), at(11, 0), at(12, 0)))

	// containment
	assert.True(t, Overlaps(at(10, 0), at(14, 0), at(11, 0), at(12, 0)))
	assert.True(t, Overlaps(at(11, 0), at(12, 0), at(10, 0), at(14, 0)))
}

func TestOverlaps_Symmetric(t *testing.T) {
	pairs := [][4]time.Time{
		{at(10, 0), at(11, 0), at(10, 30), at(11, 30)},
		{at(10, 0), at(11, 0), at(11, 0), at(12, 0)},
		{at(10, 0), at(11, 0), at(13, 0), at(14, 0)},
	}
	for _, p := range pairs {
		assert.Equal(t,
			Overlaps(p[0], p[1], p[2], p[3]),
			Overlaps(p[2], p[3], p[0], p[1]),
		)
	}
}

func TestHasConflict(t *testing.T) {
	busy := []Range{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(12, 0), End: at(13, 0)},
	}
	assert.False(t, HasConflict(at(10, 0), at(12, 0), busy))
	assert.True(t, HasConflict(at(12, 30), at(13, 30), busy))
	assert.False(t, HasConflict(at(10, 0), at(12, 0), nil))
}
