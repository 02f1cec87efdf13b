package allocations

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAllocationRequest_ToInput(t *testing.T) {
	weekStart := "2025-06-11"
	req := CreateAllocationRequest{
		ResourceID: 1,
		WorkTypeID: 10,
		WeekStart:  &weekStart,
		Days:       2.5,
	}

	input, err := req.ToInput()
	require.NoError(t, err)
	require.NotNil(t, input.WeekStart)
	assert.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), *input.WeekStart)
	assert.Equal(t, 2.5, input.Days)
}

func TestCreateAllocationRequest_ToInput_BadDate(t *testing.T) {
	weekStart := "11/06/2025"
	req := CreateAllocationRequest{ResourceID: 1, WorkTypeID: 10, WeekStart: &weekStart}

	_, err := req.ToInput()
	assert.Error(t, err)
}

func TestCreateAllocationRequest_ToInput_RFC3339(t *testing.T) {
	weekStart := "2025-06-11T00:00:00Z"
	req := CreateAllocationRequest{ResourceID: 1, WorkTypeID: 10, WeekStart: &weekStart}

	input, err := req.ToInput()
	require.NoError(t, err)
	require.NotNil(t, input.WeekStart)
	assert.Equal(t, "2025-06-11", input.WeekStart.Format("2006-01-02"))
}

func TestUpdateAllocationRequest_ExplicitNullProject(t *testing.T) {
	var req UpdateAllocationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"projectId": null, "days": 3}`), &req))

	input, err := req.ToInput()
	require.NoError(t, err)

	assert.True(t, input.ProjectID.Set)
	assert.Nil(t, input.ProjectID.Value)
	require.NotNil(t, input.Days)
	assert.Equal(t, 3.0, *input.Days)
	// Keys not present in the body stay unset.
	assert.False(t, input.Notes.Set)
	assert.Nil(t, input.ResourceID)
}

func TestUpdateAllocationRequest_StartDateRoundTrip(t *testing.T) {
	var req UpdateAllocationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"startDate": "2025-07-01"}`), &req))

	input, err := req.ToInput()
	require.NoError(t, err)

	assert.True(t, input.StartDate.Set)
	require.NotNil(t, input.StartDate.Value)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), *input.StartDate.Value)
}
