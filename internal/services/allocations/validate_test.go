package allocations

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
	"github.com/JorgeSaicoski/resource-planner/internal/fault"
)

func uintPtr(v uint) *uint           { return &v }
func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func strPtr(v string) *string        { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestOptional_Unmarshal(t *testing.T) {
	type payload struct {
		ProjectID Optional[uint] `json:"projectId"`
	}

	var absent payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.ProjectID.Set)

	var null payload
	require.NoError(t, json.Unmarshal([]byte(`{"projectId": null}`), &null))
	assert.True(t, null.ProjectID.Set)
	assert.Nil(t, null.ProjectID.Value)

	var value payload
	require.NoError(t, json.Unmarshal([]byte(`{"projectId": 7}`), &value))
	assert.True(t, value.ProjectID.Set)
	require.NotNil(t, value.ProjectID.Value)
	assert.Equal(t, uint(7), *value.ProjectID.Value)
}

func TestKeyChanged(t *testing.T) {
	assert.False(t, keyChanged(&UpdateAllocationInput{Days: floatPtr(3)}))
	assert.True(t, keyChanged(&UpdateAllocationInput{ResourceID: uintPtr(1)}))
	assert.True(t, keyChanged(&UpdateAllocationInput{WorkTypeID: uintPtr(2)}))
	assert.True(t, keyChanged(&UpdateAllocationInput{WeekStart: timePtr(time.Now())}))

	// An explicit projectId null moves the record to a different tuple.
	assert.True(t, keyChanged(&UpdateAllocationInput{ProjectID: Optional[uint]{Set: true}}))
}

func TestMergeKey(t *testing.T) {
	week := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	existing := db.Allocation{
		ResourceID: 1,
		ProjectID:  uintPtr(5),
		WorkTypeID: 10,
		WeekStart:  &week,
	}

	unchanged := mergeKey(existing, &UpdateAllocationInput{Days: floatPtr(2)})
	assert.Equal(t, uint(1), unchanged.ResourceID)
	assert.Equal(t, uintPtr(5), unchanged.ProjectID)
	assert.Equal(t, uint(10), unchanged.WorkTypeID)
	assert.Equal(t, &week, unchanged.WeekStart)

	moved := mergeKey(existing, &UpdateAllocationInput{
		ResourceID: uintPtr(2),
		ProjectID:  Optional[uint]{Set: true}, // explicit null clears the project
	})
	assert.Equal(t, uint(2), moved.ResourceID)
	assert.Nil(t, moved.ProjectID)
	assert.Equal(t, uint(10), moved.WorkTypeID)
}

func TestValidateCreate(t *testing.T) {
	valid := &CreateAllocationInput{Status: db.AllocationStatusConfirmed, Days: 2.5}
	assert.NoError(t, validateCreate(valid))

	cases := []struct {
		name    string
		input   *CreateAllocationInput
		field   string
		message string
	}{
		{
			name:    "negative days",
			input:   &CreateAllocationInput{Status: db.AllocationStatusConfirmed, Days: -1},
			field:   "days",
			message: "Days must be a non-negative number",
		},
		{
			name:    "bad status",
			input:   &CreateAllocationInput{Status: "pending"},
			field:   "status",
			message: `Status must be either "forecast" or "confirmed"`,
		},
		{
			name:    "zero quantity",
			input:   &CreateAllocationInput{Status: db.AllocationStatusForecast, Quantity: intPtr(0)},
			field:   "quantity",
			message: "Quantity must be a positive number",
		},
		{
			name:    "days per week out of range",
			input:   &CreateAllocationInput{Status: db.AllocationStatusForecast, DaysPerWeek: floatPtr(6)},
			field:   "daysPerWeek",
			message: "Days per week must be between 1 and 5",
		},
		{
			name:    "zero weeks",
			input:   &CreateAllocationInput{Status: db.AllocationStatusForecast, NumWeeks: intPtr(0)},
			field:   "numWeeks",
			message: "Number of weeks must be a positive number",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateCreate(tc.input)
			require.Error(t, err)
			assert.True(t, fault.IsValidation(err))
			assert.Equal(t, tc.message, err.Error())

			var ve *fault.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	assert.NoError(t, validateUpdate(&UpdateAllocationInput{}))
	assert.NoError(t, validateUpdate(&UpdateAllocationInput{Days: floatPtr(0)}))

	err := validateUpdate(&UpdateAllocationInput{Status: strPtr("maybe")})
	require.Error(t, err)
	assert.True(t, fault.IsValidation(err))

	err = validateUpdate(&UpdateAllocationInput{Days: floatPtr(-0.5)})
	require.Error(t, err)
	assert.Equal(t, "Days must be a non-negative number", err.Error())
}

func TestApplyUpdate(t *testing.T) {
	week := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	allocation := db.Allocation{
		ResourceID: 1,
		ProjectID:  uintPtr(5),
		WorkTypeID: 10,
		WeekStart:  &week,
		Days:       3,
		Notes:      strPtr("keep me"),
		Status:     db.AllocationStatusConfirmed,
	}

	applyUpdate(&allocation, &UpdateAllocationInput{
		Days:      floatPtr(4),
		ProjectID: Optional[uint]{Set: true}, // clear
		Status:    strPtr(db.AllocationStatusForecast),
	})

	assert.Equal(t, 4.0, allocation.Days)
	assert.Nil(t, allocation.ProjectID)
	assert.Equal(t, db.AllocationStatusForecast, allocation.Status)
	// Absent fields stay untouched.
	assert.Equal(t, strPtr("keep me"), allocation.Notes)
	assert.Equal(t, &week, allocation.WeekStart)
}

func TestApplyUpdate_ExplicitNullNotes(t *testing.T) {
	allocation := db.Allocation{Notes: strPtr("old")}

	applyUpdate(&allocation, &UpdateAllocationInput{Notes: Optional[string]{Set: true}})

	assert.Nil(t, allocation.Notes)
}

func TestSortAllocations(t *testing.T) {
	week := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	later := week.AddDate(0, 0, 7)

	allocations := []db.Allocation{
		{ID: 1, Resource: db.Resource{Name: "Bob"}, WeekStart: &week},
		{ID: 2, Resource: db.Resource{Name: "Alice"}, WeekStart: &later},
		{ID: 3, Resource: db.Resource{Name: "Alice"}, WeekStart: nil},
		{ID: 4, Resource: db.Resource{Name: "Alice"}, WeekStart: &week},
	}

	sortAllocations(allocations)

	ids := []uint{allocations[0].ID, allocations[1].ID, allocations[2].ID, allocations[3].ID}
	// Alice before Bob; within Alice the weekless forecast sorts first.
	assert.Equal(t, []uint{3, 4, 2, 1}, ids)
}
