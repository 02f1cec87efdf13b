package allocations

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JorgeSaicoski/resource-planner/internal/api"
	"github.com/JorgeSaicoski/resource-planner/internal/db"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/allocations"
	projectsvc "github.com/JorgeSaicoski/resource-planner/internal/services/projects"
)

type AllocationHandler struct {
	allocationService *svc.AllocationService
	projectService    *projectsvc.ProjectService
}

func NewAllocationHandler(allocationService *svc.AllocationService, projectService *projectsvc.ProjectService) *AllocationHandler {
	return &AllocationHandler{
		allocationService: allocationService,
		projectService:    projectService,
	}
}

func (h *AllocationHandler) CreateAllocation(c *gin.Context) {
	var req CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	// A free-text project label without an ID resolves to an existing
	// project by exact name, or creates one.
	if req.ProjectID == nil && req.ProjectName != nil && *req.ProjectName != "" {
		project, err := h.projectService.ResolveByName(*req.ProjectName, req.Customer)
		if err != nil {
			api.Error(c, err, "Failed to resolve project")
			return
		}
		req.ProjectID = &project.ID
	}

	input, err := req.ToInput()
	if err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	allocation, err := h.allocationService.CreateAllocation(input)
	if err != nil {
		api.Error(c, err, "Failed to create allocation")
		return
	}

	api.Created(c, "Allocation created successfully", AllocationToResponse(allocation))
}

func (h *AllocationHandler) GetAllocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	allocation, err := h.allocationService.GetAllocation(id)
	if err != nil {
		api.Error(c, err, "Failed to retrieve allocation")
		return
	}

	api.OK(c, AllocationToResponse(allocation))
}

func (h *AllocationHandler) UpdateAllocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	input, err := req.ToInput()
	if err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	allocation, err := h.allocationService.UpdateAllocation(id, input)
	if err != nil {
		api.Error(c, err, "Failed to update allocation")
		return
	}

	api.OK(c, AllocationToResponse(allocation))
}

func (h *AllocationHandler) DeleteAllocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.allocationService.DeleteAllocation(id); err != nil {
		api.Error(c, err, "Failed to delete allocation")
		return
	}

	api.Message(c, "Allocation deleted successfully", nil)
}

func (h *AllocationHandler) ListAllocations(c *gin.Context) {
	filter, ok := parseListFilter(c)
	if !ok {
		return
	}

	allocations, err := h.allocationService.ListAllocations(filter)
	if err != nil {
		api.Error(c, err, "Failed to retrieve allocations")
		return
	}

	responses := AllocationsToResponse(allocations)
	api.List(c, responses, len(responses))
}

func (h *AllocationHandler) ListWeeks(c *gin.Context) {
	weeks, err := h.allocationService.ListWeeks()
	if err != nil {
		api.Error(c, err, "Failed to retrieve weeks")
		return
	}

	keys := make([]string, len(weeks))
	for i, week := range weeks {
		keys[i] = db.WeekKey(week)
	}
	api.List(c, keys, len(keys))
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		api.BadRequest(c, "Invalid allocation ID")
		return 0, false
	}
	return uint(id), true
}

func parseListFilter(c *gin.Context) (*svc.ListFilter, bool) {
	filter := &svc.ListFilter{}

	if raw := c.Query("projectId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			api.BadRequest(c, "Invalid projectId")
			return nil, false
		}
		projectID := uint(id)
		filter.ProjectID = &projectID
	}
	if raw := c.Query("resourceId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			api.BadRequest(c, "Invalid resourceId")
			return nil, false
		}
		resourceID := uint(id)
		filter.ResourceID = &resourceID
	}
	if raw := c.Query("status"); raw != "" {
		status := raw
		filter.Status = &status
	}
	if raw := c.Query("weekStart"); raw != "" {
		week, err := parseDate(raw)
		if err != nil {
			api.BadRequest(c, "Invalid weekStart")
			return nil, false
		}
		filter.WeekStart = &week
	}
	if raw := c.Query("weekEnd"); raw != "" {
		week, err := parseDate(raw)
		if err != nil {
			api.BadRequest(c, "Invalid weekEnd")
			return nil, false
		}
		filter.WeekEnd = &week
	}
	if raw := c.Query("roleIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 32)
			if err != nil {
				api.BadRequest(c, "Invalid roleIds")
				return nil, false
			}
			filter.RoleIDs = append(filter.RoleIDs, uint(id))
		}
	}

	return filter, true
}
