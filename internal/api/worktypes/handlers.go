package worktypes

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JorgeSaicoski/resource-planner/internal/api"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/worktypes"
)

type WorkTypeHandler struct {
	workTypeService *svc.WorkTypeService
}

func NewWorkTypeHandler(workTypeService *svc.WorkTypeService) *WorkTypeHandler {
	return &WorkTypeHandler{
		workTypeService: workTypeService,
	}
}

func (h *WorkTypeHandler) CreateWorkType(c *gin.Context) {
	var req CreateWorkTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	workType, err := h.workTypeService.CreateWorkType(req.Name, req.Description, req.Color)
	if err != nil {
		api.Error(c, err, "Failed to create work type")
		return
	}

	api.Created(c, "Work type created successfully", WorkTypeToResponse(workType, 0))
}

func (h *WorkTypeHandler) ListWorkTypes(c *gin.Context) {
	var isActive *bool
	if raw := c.Query("isActive"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			api.BadRequest(c, "Invalid isActive")
			return
		}
		isActive = &value
	}

	workTypes, counts, err := h.workTypeService.ListWorkTypes(isActive)
	if err != nil {
		api.Error(c, err, "Failed to retrieve work types")
		return
	}

	responses := WorkTypesToResponse(workTypes, counts)
	api.List(c, responses, len(responses))
}
