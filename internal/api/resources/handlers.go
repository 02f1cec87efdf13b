package resources

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JorgeSaicoski/resource-planner/internal/api"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/resources"
)

type ResourceHandler struct {
	resourceService *svc.ResourceService
}

func NewResourceHandler(resourceService *svc.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
	}
}

/* ------------------------------------------------------------------ */
/*  Resources                                                         */
/* ------------------------------------------------------------------ */

func (h *ResourceHandler) CreateResource(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	resource, err := h.resourceService.CreateResource(req.ToInput())
	if err != nil {
		api.Error(c, err, "Failed to create resource")
		return
	}

	api.Created(c, "Resource created successfully", ResourceToResponse(resource, 0))
}

func (h *ResourceHandler) UpdateResource(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		api.BadRequest(c, "Invalid resource ID")
		return
	}

	var req UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	resource, err := h.resourceService.UpdateResource(uint(id), req.ToInput())
	if err != nil {
		api.Error(c, err, "Failed to update resource")
		return
	}

	api.OK(c, ResourceToResponse(resource, 0))
}

func (h *ResourceHandler) ListResources(c *gin.Context) {
	isActive, ok := parseBoolQuery(c, "isActive")
	if !ok {
		return
	}

	resources, counts, err := h.resourceService.ListResources(isActive)
	if err != nil {
		api.Error(c, err, "Failed to retrieve resources")
		return
	}

	responses := ResourcesToResponse(resources, counts)
	api.List(c, responses, len(responses))
}

/* ------------------------------------------------------------------ */
/*  Roles                                                             */
/* ------------------------------------------------------------------ */

func (h *ResourceHandler) ListRoles(c *gin.Context) {
	roles, err := h.resourceService.ListRoles()
	if err != nil {
		api.Error(c, err, "Failed to retrieve roles")
		return
	}

	api.List(c, roles, len(roles))
}

/* ------------------------------------------------------------------ */
/*  Skills                                                            */
/* ------------------------------------------------------------------ */

func (h *ResourceHandler) ListSkills(c *gin.Context) {
	skills, err := h.resourceService.ListSkills()
	if err != nil {
		api.Error(c, err, "Failed to retrieve skills")
		return
	}

	api.List(c, skills, len(skills))
}

func (h *ResourceHandler) CreateSkill(c *gin.Context) {
	var req CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	skill, err := h.resourceService.CreateSkill(req.Name, req.Description)
	if err != nil {
		api.Error(c, err, "Failed to create skill")
		return
	}

	api.Created(c, "Skill created successfully", skill)
}

func (h *ResourceHandler) DeleteSkill(c *gin.Context) {
	id, ok := parseIDQuery(c)
	if !ok {
		return
	}

	if err := h.resourceService.DeleteSkill(id); err != nil {
		api.Error(c, err, "Failed to delete skill")
		return
	}

	api.Message(c, "Skill deleted successfully", nil)
}

/* ------------------------------------------------------------------ */
/*  Skill assignments                                                 */
/* ------------------------------------------------------------------ */

func (h *ResourceHandler) ListResourceSkills(c *gin.Context) {
	var resourceID *uint
	if raw := c.Query("resourceId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			api.BadRequest(c, "Invalid resourceId")
			return
		}
		parsed := uint(id)
		resourceID = &parsed
	}

	assignments, err := h.resourceService.ListResourceSkills(resourceID)
	if err != nil {
		api.Error(c, err, "Failed to retrieve skill assignments")
		return
	}

	api.List(c, assignments, len(assignments))
}

func (h *ResourceHandler) AssignSkill(c *gin.Context) {
	var req AssignSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	input, err := req.ToInput()
	if err != nil {
		api.BadRequest(c, "Invalid expiresAt date")
		return
	}

	assignment, err := h.resourceService.AssignSkill(input)
	if err != nil {
		api.Error(c, err, "Failed to assign skill")
		return
	}

	api.Created(c, "Skill assigned successfully", assignment)
}

func (h *ResourceHandler) RemoveSkill(c *gin.Context) {
	id, ok := parseIDQuery(c)
	if !ok {
		return
	}

	if err := h.resourceService.RemoveSkill(id); err != nil {
		api.Error(c, err, "Failed to remove skill assignment")
		return
	}

	api.Message(c, "Skill assignment removed successfully", nil)
}

/* ------------------------------------------------------------------ */
/*  Query helpers                                                     */
/* ------------------------------------------------------------------ */

// parseIDQuery reads the ?id= query parameter used by the delete endpoints.
func parseIDQuery(c *gin.Context) (uint, bool) {
	raw := c.Query("id")
	if raw == "" {
		api.BadRequest(c, "ID is required")
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		api.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func parseBoolQuery(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		api.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &value, true
}
