package projects

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JorgeSaicoski/resource-planner/internal/api"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/projects"
)

type ProjectHandler struct {
	projectService *svc.ProjectService
}

func NewProjectHandler(projectService *svc.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	input, err := req.ToInput()
	if err != nil {
		api.BadRequest(c, "Invalid date format, expected yyyy-mm-dd")
		return
	}

	project, err := h.projectService.CreateProject(input)
	if err != nil {
		api.Error(c, err, "Failed to create project")
		return
	}

	api.Created(c, "Project created successfully", ProjectToResponse(project, 0))
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		api.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(uint(id))
	if err != nil {
		api.Error(c, err, "Failed to retrieve project")
		return
	}

	api.OK(c, ProjectToResponse(project, 0))
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var isActive *bool
	if raw := c.Query("isActive"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			api.BadRequest(c, "Invalid isActive")
			return
		}
		isActive = &value
	}

	var customer *string
	if raw := c.Query("customer"); raw != "" {
		customer = &raw
	}

	projects, counts, err := h.projectService.ListProjects(isActive, customer)
	if err != nil {
		api.Error(c, err, "Failed to retrieve projects")
		return
	}

	responses := ProjectsToResponse(projects, counts)
	api.List(c, responses, len(responses))
}
