package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
)

var (
	week1 = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	week2 = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
)

func fixtures() (map[uint]db.Resource, map[uint]db.WorkType) {
	resources := map[uint]db.Resource{
		1: {ID: 1, Name: "Alice"},
		2: {ID: 2, Name: "Bob"},
	}
	workTypes := map[uint]db.WorkType{
		10: {ID: 10, Name: "Project"},
		11: {ID: 11, Name: "Holiday"},
	}
	return resources, workTypes
}

func TestComputeWeekAvailability_HolidaySplit(t *testing.T) {
	resources, workTypes := fixtures()
	allocations := []db.Allocation{
		{ResourceID: 1, WorkTypeID: 10, WeekStart: &week1, Days: 2},
		{ResourceID: 1, WorkTypeID: 11, WeekStart: &week1, Days: 1},
	}

	entries := ComputeWeekAvailability(allocations, resources, workTypes)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "Alice", entry.ResourceName)
	assert.Equal(t, "2025-06-09", entry.WeekStart)
	assert.Equal(t, 2.0, entry.TotalAllocated)
	assert.Equal(t, 1.0, entry.HolidayDays)
	assert.Equal(t, 2.0, entry.AvailabilityLeft)
	assert.False(t, entry.Overbooked)
}

func TestComputeWeekAvailability_Overbooked(t *testing.T) {
	resources, workTypes := fixtures()
	allocations := []db.Allocation{
		{ResourceID: 1, WorkTypeID: 10, WeekStart: &week1, Days: 6},
	}

	entries := ComputeWeekAvailability(allocations, resources, workTypes)
	require.Len(t, entries, 1)

	assert.Equal(t, -1.0, entries[0].AvailabilityLeft)
	assert.True(t, entries[0].Overbooked)
}

func TestComputeWeekAvailability_HolidayDoesNotOverbook(t *testing.T) {
	// A fully booked week plus holiday goes negative on availability but is
	// not flagged as overbooked.
	resources, workTypes := fixtures()
	allocations := []db.Allocation{
		{ResourceID: 1, WorkTypeID: 10, WeekStart: &week1, Days: 5},
		{ResourceID: 1, WorkTypeID: 11, WeekStart: &week1, Days: 1},
	}

	entries := ComputeWeekAvailability(allocations, resources, workTypes)
	require.Len(t, entries, 1)

	assert.Equal(t, -1.0, entries[0].AvailabilityLeft)
	assert.False(t, entries[0].Overbooked)
}

func TestComputeWeekAvailability_SkipsWeeklessForecasts(t *testing.T) {
	resources, workTypes := fixtures()
	allocations := []db.Allocation{
		{ResourceID: 1, WorkTypeID: 10, WeekStart: nil, Days: 3, Status: db.AllocationStatusForecast},
	}

	entries := ComputeWeekAvailability(allocations, resources, workTypes)
	assert.Empty(t, entries)
}

func TestComputeWeekAvailability_Ordering(t *testing.T) {
	resources, workTypes := fixtures()
	allocations := []db.Allocation{
		{ResourceID: 2, WorkTypeID: 10, WeekStart: &week2, Days: 1},
		{ResourceID: 2, WorkTypeID: 10, WeekStart: &week1, Days: 1},
		{ResourceID: 1, WorkTypeID: 10, WeekStart: &week2, Days: 1},
	}

	entries := ComputeWeekAvailability(allocations, resources, workTypes)
	require.Len(t, entries, 3)

	assert.Equal(t, "Alice", entries[0].ResourceName)
	assert.Equal(t, "Bob", entries[1].ResourceName)
	assert.Equal(t, "2025-06-09", entries[1].WeekStart)
	assert.Equal(t, "Bob", entries[2].ResourceName)
	assert.Equal(t, "2025-06-16", entries[2].WeekStart)
}

func TestComputeWeekAvailability_RoundsFractionalDays(t *testing.T) {
	resources, workTypes := fixtures()
	allocations := []db.Allocation{
		{ResourceID: 1, WorkTypeID: 10, WeekStart: &week1, Days: 0.1},
		{ResourceID: 1, WorkTypeID: 10, WeekStart: &week1, Days: 0.2},
	}

	entries := ComputeWeekAvailability(allocations, resources, workTypes)
	require.Len(t, entries, 1)

	assert.Equal(t, 4.7, entries[0].AvailabilityLeft)
}

func TestSummarizeResource_CapacityScalesWithWeeks(t *testing.T) {
	resource := db.Resource{ID: 1, Name: "Alice"}
	allocations := []db.Allocation{
		{ResourceID: 1, WorkTypeID: 10, WeekStart: &week1, Days: 3},
		{ResourceID: 1, WorkTypeID: 10, WeekStart: &week1, Days: 1},
		{ResourceID: 1, WorkTypeID: 10, WeekStart: &week2, Days: 4},
	}

	summary := SummarizeResource(resource, allocations)

	assert.Equal(t, 2, summary.DistinctWeeks)
	assert.Equal(t, 10.0, summary.TotalCapacity)
	assert.Equal(t, 8.0, summary.TotalAllocated)
	assert.Equal(t, 2.0, summary.AvailabilityLeft)
	assert.False(t, summary.Overbooked)
}

func TestSummarizeResource_HolidayCountsTowardTotal(t *testing.T) {
	// The aggregate view counts every allocation's days, holiday included.
	resource := db.Resource{ID: 1, Name: "Alice"}
	allocations := []db.Allocation{
		{ResourceID: 1, WorkTypeID: 10, WeekStart: &week1, Days: 4},
		{ResourceID: 1, WorkTypeID: 11, WeekStart: &week1, Days: 2},
	}

	summary := SummarizeResource(resource, allocations)

	assert.Equal(t, 6.0, summary.TotalAllocated)
	assert.Equal(t, 5.0, summary.TotalCapacity)
	assert.True(t, summary.Overbooked)
}

func TestSummarizeResource_NoAllocations(t *testing.T) {
	resource := db.Resource{ID: 1, Name: "Alice"}

	summary := SummarizeResource(resource, nil)

	assert.Equal(t, 0, summary.DistinctWeeks)
	assert.Equal(t, 0.0, summary.TotalCapacity)
	assert.Equal(t, 0.0, summary.AvailabilityLeft)
	assert.False(t, summary.Overbooked)
	assert.Equal(t, db.DefaultWeeklyCapacity, summary.DefaultAvailability)
}

func TestSummarizeResource_WeeklessForecastAddsDaysNotCapacity(t *testing.T) {
	resource := db.Resource{ID: 1, Name: "Alice"}
	allocations := []db.Allocation{
		{ResourceID: 1, WorkTypeID: 10, WeekStart: nil, Days: 3},
	}

	summary := SummarizeResource(resource, allocations)

	assert.Equal(t, 3.0, summary.TotalAllocated)
	assert.Equal(t, 0, summary.DistinctWeeks)
	assert.True(t, summary.Overbooked)
}
