package allocations

import (
	"fmt"
	"time"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/allocations"
)

// parseDate accepts a plain date (yyyy-mm-dd) or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", value)
}

type CreateAllocationRequest struct {
	ResourceID uint  `json:"resourceId" binding:"required"`
	ProjectID  *uint `json:"projectId"`
	// ProjectName is resolved (or created) when projectId is absent.
	ProjectName *string  `json:"projectName"`
	Customer    *string  `json:"customer"`
	WorkTypeID  uint     `json:"workTypeId" binding:"required"`
	WeekStart   *string  `json:"weekStart"`
	Days        float64  `json:"days"`
	Notes       *string  `json:"notes"`
	Status      string   `json:"status"`
	Role        *string  `json:"role"`
	Quantity    *int     `json:"quantity"`
	DaysPerWeek *float64 `json:"daysPerWeek"`
	NumWeeks    *int     `json:"numWeeks"`
	StartDate   *string  `json:"startDate"`
}

func (r *CreateAllocationRequest) ToInput() (*svc.CreateAllocationInput, error) {
	in := &svc.CreateAllocationInput{
		ResourceID:  r.ResourceID,
		ProjectID:   r.ProjectID,
		WorkTypeID:  r.WorkTypeID,
		Days:        r.Days,
		Notes:       r.Notes,
		Status:      r.Status,
		RoleLabel:   r.Role,
		Quantity:    r.Quantity,
		DaysPerWeek: r.DaysPerWeek,
		NumWeeks:    r.NumWeeks,
	}
	if r.WeekStart != nil && *r.WeekStart != "" {
		week, err := parseDate(*r.WeekStart)
		if err != nil {
			return nil, fmt.Errorf("weekStart: %w", err)
		}
		in.WeekStart = &week
	}
	if r.StartDate != nil && *r.StartDate != "" {
		start, err := parseDate(*r.StartDate)
		if err != nil {
			return nil, fmt.Errorf("startDate: %w", err)
		}
		in.StartDate = &start
	}
	return in, nil
}

// UpdateAllocationRequest is a partial update. The Optional fields keep the
// distinction between an absent key and an explicit null, which clears the
// column.
type UpdateAllocationRequest struct {
	ResourceID  *uint                `json:"resourceId"`
	ProjectID   svc.Optional[uint]   `json:"projectId"`
	WorkTypeID  *uint                `json:"workTypeId"`
	WeekStart   *string              `json:"weekStart"`
	Days        *float64             `json:"days"`
	Notes       svc.Optional[string] `json:"notes"`
	Status      *string              `json:"status"`
	Role        svc.Optional[string] `json:"role"`
	Quantity    *int                 `json:"quantity"`
	DaysPerWeek *float64             `json:"daysPerWeek"`
	NumWeeks    *int                 `json:"numWeeks"`
	StartDate   svc.Optional[string] `json:"startDate"`
}

func (r *UpdateAllocationRequest) ToInput() (*svc.UpdateAllocationInput, error) {
	in := &svc.UpdateAllocationInput{
		ResourceID:  r.ResourceID,
		ProjectID:   r.ProjectID,
		WorkTypeID:  r.WorkTypeID,
		Days:        r.Days,
		Notes:       r.Notes,
		Status:      r.Status,
		RoleLabel:   r.Role,
		Quantity:    r.Quantity,
		DaysPerWeek: r.DaysPerWeek,
		NumWeeks:    r.NumWeeks,
	}
	if r.WeekStart != nil && *r.WeekStart != "" {
		week, err := parseDate(*r.WeekStart)
		if err != nil {
			return nil, fmt.Errorf("weekStart: %w", err)
		}
		in.WeekStart = &week
	}
	if r.StartDate.Set {
		in.StartDate.Set = true
		if r.StartDate.Value != nil {
			start, err := parseDate(*r.StartDate.Value)
			if err != nil {
				return nil, fmt.Errorf("startDate: %w", err)
			}
			in.StartDate.Value = &start
		}
	}
	return in, nil
}

type ResourceRefResponse struct {
	ID    uint      `json:"id"`
	Name  string    `json:"name"`
	Roles []db.Role `json:"roles"`
}

type ProjectRefResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Customer *string `json:"customer"`
}

type WorkTypeRefResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type AllocationResponse struct {
	ID          uint       `json:"id"`
	ResourceID  uint       `json:"resourceId"`
	ProjectID   *uint      `json:"projectId"`
	WorkTypeID  uint       `json:"workTypeId"`
	WeekStart   *time.Time `json:"weekStart"`
	Days        float64    `json:"days"`
	Notes       *string    `json:"notes"`
	Status      string     `json:"status"`
	Role        *string    `json:"role"`
	Quantity    *int       `json:"quantity"`
	DaysPerWeek *float64   `json:"daysPerWeek"`
	NumWeeks    *int       `json:"numWeeks"`
	StartDate   *time.Time `json:"startDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Resource *ResourceRefResponse `json:"resource,omitempty"`
	Project  *ProjectRefResponse  `json:"project,omitempty"`
	WorkType *WorkTypeRefResponse `json:"workType,omitempty"`
}

func AllocationToResponse(allocation *db.Allocation) AllocationResponse {
	response := AllocationResponse{
		ID:          allocation.ID,
		ResourceID:  allocation.ResourceID,
		ProjectID:   allocation.ProjectID,
		WorkTypeID:  allocation.WorkTypeID,
		WeekStart:   allocation.WeekStart,
		Days:        allocation.Days,
		Notes:       allocation.Notes,
		Status:      allocation.Status,
		Role:        allocation.RoleLabel,
		Quantity:    allocation.Quantity,
		DaysPerWeek: allocation.DaysPerWeek,
		NumWeeks:    allocation.NumWeeks,
		StartDate:   allocation.StartDate,
		CreatedAt:   allocation.CreatedAt,
		UpdatedAt:   allocation.UpdatedAt,
	}
	if allocation.Resource.ID != 0 {
		response.Resource = &ResourceRefResponse{
			ID:    allocation.Resource.ID,
			Name:  allocation.Resource.Name,
			Roles: db.FlattenRoles(allocation.Resource.Roles),
		}
	}
	if allocation.Project != nil {
		response.Project = &ProjectRefResponse{
			ID:       allocation.Project.ID,
			Name:     allocation.Project.Name,
			Customer: allocation.Project.Customer,
		}
	}
	if allocation.WorkType.ID != 0 {
		response.WorkType = &WorkTypeRefResponse{
			ID:    allocation.WorkType.ID,
			Name:  allocation.WorkType.Name,
			Color: allocation.WorkType.Color,
		}
	}
	return response
}

func AllocationsToResponse(allocations []db.Allocation) []AllocationResponse {
	responses := make([]AllocationResponse, len(allocations))
	for i := range allocations {
		responses[i] = AllocationToResponse(&allocations[i])
	}
	return responses
}
