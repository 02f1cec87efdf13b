package projects

import (
	"time"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/projects"
)

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Customer    *string `json:"customer"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

func (r *CreateProjectRequest) ToInput() (*svc.CreateProjectInput, error) {
	in := &svc.CreateProjectInput{
		Name:        r.Name,
		Customer:    r.Customer,
		Description: r.Description,
	}
	if r.StartDate != nil && *r.StartDate != "" {
		start, err := parseDate(*r.StartDate)
		if err != nil {
			return nil, err
		}
		in.StartDate = &start
	}
	if r.EndDate != nil && *r.EndDate != "" {
		end, err := parseDate(*r.EndDate)
		if err != nil {
			return nil, err
		}
		in.EndDate = &end
	}
	return in, nil
}

type ProjectResponse struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Customer        *string    `json:"customer"`
	Description     *string    `json:"description"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	IsActive        bool       `json:"isActive"`
	AllocationCount int        `json:"allocationCount"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func ProjectToResponse(project *db.Project, allocationCount int) ProjectResponse {
	return ProjectResponse{
		ID:              project.ID,
		Name:            project.Name,
		Customer:        project.Customer,
		Description:     project.Description,
		StartDate:       project.StartDate,
		EndDate:         project.EndDate,
		IsActive:        project.IsActive,
		AllocationCount: allocationCount,
		CreatedAt:       project.CreatedAt,
		UpdatedAt:       project.UpdatedAt,
	}
}

func ProjectsToResponse(projects []db.Project, counts map[uint]int) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ProjectToResponse(&projects[i], counts[projects[i].ID])
	}
	return responses
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
