package resources

import (
	"time"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/resources"
)

type CreateResourceRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	RoleIDs  []uint  `json:"roleIds" binding:"required"`
	JobTitle *string `json:"jobTitle"`
	Password *string `json:"password"`
}

func (r *CreateResourceRequest) ToInput() *svc.CreateResourceInput {
	return &svc.CreateResourceInput{
		Name:     r.Name,
		Email:    r.Email,
		RoleIDs:  r.RoleIDs,
		JobTitle: r.JobTitle,
		Password: r.Password,
	}
}

// UpdateResourceRequest is a partial update. A non-nil roleIds list replaces
// every role link; nil leaves them untouched.
type UpdateResourceRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	JobTitle *string `json:"jobTitle"`
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password"`
	RoleIDs  []uint  `json:"roleIds"`
}

func (r *UpdateResourceRequest) ToInput() *svc.UpdateResourceInput {
	return &svc.UpdateResourceInput{
		Name:     r.Name,
		Email:    r.Email,
		JobTitle: r.JobTitle,
		IsActive: r.IsActive,
		Password: r.Password,
		RoleIDs:  r.RoleIDs,
	}
}

type ResourceResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	JobTitle        *string   `json:"jobTitle"`
	IsActive        bool      `json:"isActive"`
	Roles           []db.Role `json:"roles"`
	AllocationCount int       `json:"allocationCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func ResourceToResponse(resource *db.Resource, allocationCount int) ResourceResponse {
	return ResourceResponse{
		ID:              resource.ID,
		Name:            resource.Name,
		Email:           resource.Email,
		JobTitle:        resource.JobTitle,
		IsActive:        resource.IsActive,
		Roles:           db.FlattenRoles(resource.Roles),
		AllocationCount: allocationCount,
		CreatedAt:       resource.CreatedAt,
		UpdatedAt:       resource.UpdatedAt,
	}
}

func ResourcesToResponse(resources []db.Resource, counts map[uint]int) []ResourceResponse {
	responses := make([]ResourceResponse, len(resources))
	for i := range resources {
		responses[i] = ResourceToResponse(&resources[i], counts[resources[i].ID])
	}
	return responses
}

type CreateSkillRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type AssignSkillRequest struct {
	ResourceID  uint    `json:"resourceId" binding:"required"`
	SkillID     uint    `json:"skillId" binding:"required"`
	Proficiency *string `json:"proficiency"`
	ExpiresAt   *string `json:"expiresAt"`
	Notes       *string `json:"notes"`
}

func (r *AssignSkillRequest) ToInput() (*svc.AssignSkillInput, error) {
	in := &svc.AssignSkillInput{
		ResourceID:  r.ResourceID,
		SkillID:     r.SkillID,
		Proficiency: r.Proficiency,
		Notes:       r.Notes,
	}
	if r.ExpiresAt != nil && *r.ExpiresAt != "" {
		expires, err := parseDate(*r.ExpiresAt)
		if err != nil {
			return nil, err
		}
		in.ExpiresAt = &expires
	}
	return in, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
