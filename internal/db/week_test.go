package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWeekStart_MidWeek(t *testing.T) {
	// Wednesday, June 11 2025 with a time component
	wednesday := time.Date(2025, 6, 11, 15, 30, 45, 0, time.UTC)

	monday := NormalizeWeekStart(wednesday)

	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, "2025-06-09", WeekKey(monday))
	assert.Equal(t, 0, monday.Hour())
	assert.Equal(t, 0, monday.Minute())
	assert.Equal(t, 0, monday.Second())
}

func TestNormalizeWeekStart_MondayUnchanged(t *testing.T) {
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday, NormalizeWeekStart(monday))
}

func TestNormalizeWeekStart_SundaySnapsBack(t *testing.T) {
	// Sunday belongs to the week that started six days earlier.
	sunday := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	monday := NormalizeWeekStart(sunday)

	assert.Equal(t, "2025-06-09", WeekKey(monday))
}

func TestNormalizeWeekStart_Idempotent(t *testing.T) {
	for day := 9; day <= 15; day++ {
		input := time.Date(2025, 6, day, 12, 0, 0, 0, time.UTC)
		once := NormalizeWeekStart(input)
		twice := NormalizeWeekStart(once)
		assert.Equal(t, once, twice, "day %d", day)
	}
}

func TestNormalizeWeekStart_CrossesMonthBoundary(t *testing.T) {
	// Tuesday, July 1 2025 snaps back into June.
	tuesday := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-06-30", WeekKey(NormalizeWeekStart(tuesday)))
}
