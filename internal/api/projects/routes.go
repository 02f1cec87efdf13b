package projects

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JorgeSaicoski/resource-planner/internal/api"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/projects"
)

// RegisterRoutes registers the project catalog routes. The list endpoint is
// rate limited per client.
func RegisterRoutes(router *gin.RouterGroup, projectService *svc.ProjectService) {
	handler := NewProjectHandler(projectService)

	rateLimit := api.RateLimitMiddleware(api.RateLimitOptions{
		Window:  15 * time.Minute,
		Max:     100,
		Message: "Too many requests, please try again later",
	})

	projectsGroup := router.Group("/projects")
	projectsGroup.Use(
		api.LoggingMiddleware(),
		api.AuthMiddleware(),
		rateLimit,
	)

	{
		projectsGroup.GET("", handler.ListProjects)
		projectsGroup.POST("", handler.CreateProject)
		projectsGroup.GET("/:id", handler.GetProject)
	}
}
