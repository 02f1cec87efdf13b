package worktypes

import (
	"time"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
)

type CreateWorkTypeRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

type WorkTypeResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	Color           *string   `json:"color"`
	IsActive        bool      `json:"isActive"`
	AllocationCount int       `json:"allocationCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func WorkTypeToResponse(workType *db.WorkType, allocationCount int) WorkTypeResponse {
	return WorkTypeResponse{
		ID:              workType.ID,
		Name:            workType.Name,
		Description:     workType.Description,
		Color:           workType.Color,
		IsActive:        workType.IsActive,
		AllocationCount: allocationCount,
		CreatedAt:       workType.CreatedAt,
		UpdatedAt:       workType.UpdatedAt,
	}
}

func WorkTypesToResponse(workTypes []db.WorkType, counts map[uint]int) []WorkTypeResponse {
	responses := make([]WorkTypeResponse, len(workTypes))
	for i := range workTypes {
		responses[i] = WorkTypeToResponse(&workTypes[i], counts[workTypes[i].ID])
	}
	return responses
}
