package allocations

import (
	"encoding/json"
	"time"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
	"github.com/JorgeSaicoski/resource-planner/internal/fault"
)

// Optional is a tri-state JSON field: absent (Set=false), explicit null
// (Set=true, Value=nil), or a value. Needed because clearing the project
// reference is a legal update and a plain pointer cannot express it.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

// allocationKey is the uniqueness tuple of the ledger.
type allocationKey struct {
	ResourceID uint
	ProjectID  *uint
	WorkTypeID uint
	WeekStart  *time.Time
}

// keyChanged reports whether the update touches any tuple component,
// including an explicit projectId null.
func keyChanged(in *UpdateAllocationInput) bool {
	return in.ResourceID != nil || in.WorkTypeID != nil || in.WeekStart != nil || in.ProjectID.Set
}

// mergeKey computes the effective post-update tuple by merging unchanged
// components from the existing record.
func mergeKey(existing db.Allocation, in *UpdateAllocationInput) allocationKey {
	key := allocationKey{
		ResourceID: existing.ResourceID,
		ProjectID:  existing.ProjectID,
		WorkTypeID: existing.WorkTypeID,
		WeekStart:  existing.WeekStart,
	}
	if in.ResourceID != nil {
		key.ResourceID = *in.ResourceID
	}
	if in.WorkTypeID != nil {
		key.WorkTypeID = *in.WorkTypeID
	}
	if in.WeekStart != nil {
		key.WeekStart = in.WeekStart
	}
	if in.ProjectID.Set {
		key.ProjectID = in.ProjectID.Value
	}
	return key
}

func validStatus(status string) bool {
	return status == db.AllocationStatusForecast || status == db.AllocationStatusConfirmed
}

func validateCreate(in *CreateAllocationInput) error {
	if in.Days < 0 {
		return fault.Invalid("days", "Days must be a non-negative number")
	}
	if !validStatus(in.Status) {
		return fault.Invalid("status", `Status must be either "forecast" or "confirmed"`)
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return fault.Invalid("quantity", "Quantity must be a positive number")
	}
	if in.DaysPerWeek != nil && (*in.DaysPerWeek < 1 || *in.DaysPerWeek > 5) {
		return fault.Invalid("daysPerWeek", "Days per week must be between 1 and 5")
	}
	if in.NumWeeks != nil && *in.NumWeeks < 1 {
		return fault.Invalid("numWeeks", "Number of weeks must be a positive number")
	}
	return nil
}

func validateUpdate(in *UpdateAllocationInput) error {
	if in.Days != nil && *in.Days < 0 {
		return fault.Invalid("days", "Days must be a non-negative number")
	}
	if in.Status != nil && !validStatus(*in.Status) {
		return fault.Invalid("status", `Status must be either "forecast" or "confirmed"`)
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return fault.Invalid("quantity", "Quantity must be a positive number")
	}
	if in.DaysPerWeek != nil && (*in.DaysPerWeek < 1 || *in.DaysPerWeek > 5) {
		return fault.Invalid("daysPerWeek", "Days per week must be between 1 and 5")
	}
	if in.NumWeeks != nil && *in.NumWeeks < 1 {
		return fault.Invalid("numWeeks", "Number of weeks must be a positive number")
	}
	return nil
}

// applyUpdate copies present fields onto the record. Validation and the
// conflict check must already have passed.
func applyUpdate(allocation *db.Allocation, in *UpdateAllocationInput) {
	if in.ResourceID != nil {
		allocation.ResourceID = *in.ResourceID
	}
	if in.ProjectID.Set {
		allocation.ProjectID = in.ProjectID.Value
		allocation.Project = nil
	}
	if in.WorkTypeID != nil {
		allocation.WorkTypeID = *in.WorkTypeID
	}
	if in.WeekStart != nil {
		allocation.WeekStart = in.WeekStart
	}
	if in.Days != nil {
		allocation.Days = *in.Days
	}
	if in.Notes.Set {
		allocation.Notes = in.Notes.Value
	}
	if in.Status != nil {
		allocation.Status = *in.Status
	}
	if in.RoleLabel.Set {
		allocation.RoleLabel = in.RoleLabel.Value
	}
	if in.Quantity != nil {
		allocation.Quantity = in.Quantity
	}
	if in.DaysPerWeek != nil {
		allocation.DaysPerWeek = in.DaysPerWeek
	}
	if in.NumWeeks != nil {
		allocation.NumWeeks = in.NumWeeks
	}
	if in.StartDate.Set {
		allocation.StartDate = in.StartDate.Value
	}
}
