package resources

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JorgeSaicoski/resource-planner/internal/api"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/resources"
)

// RegisterRoutes registers resource administration plus the role and skill
// catalogs. The resource list is rate limited per client.
func RegisterRoutes(router *gin.RouterGroup, resourceService *svc.ResourceService) {
	handler := NewResourceHandler(resourceService)

	rateLimit := api.RateLimitMiddleware(api.RateLimitOptions{
		Window:  15 * time.Minute,
		Max:     100,
		Message: "Too many requests, please try again later",
	})

	resourcesGroup := router.Group("/resources")
	resourcesGroup.Use(
		api.LoggingMiddleware(),
		api.AuthMiddleware(),
		rateLimit,
	)

	{
		resourcesGroup.GET("", handler.ListResources)
		resourcesGroup.POST("", handler.CreateResource)
		resourcesGroup.PATCH("/:id", handler.UpdateResource)
	}

	rolesGroup := router.Group("/roles")
	rolesGroup.Use(
		api.LoggingMiddleware(),
		api.AuthMiddleware(),
	)

	{
		rolesGroup.GET("", handler.ListRoles)
	}

	skillsGroup := router.Group("/skills")
	skillsGroup.Use(
		api.LoggingMiddleware(),
		api.AuthMiddleware(),
	)

	{
		skillsGroup.GET("", handler.ListSkills)
		skillsGroup.POST("", handler.CreateSkill)
		skillsGroup.DELETE("", handler.DeleteSkill)
	}

	resourceSkillsGroup := router.Group("/resource-skills")
	resourceSkillsGroup.Use(
		api.LoggingMiddleware(),
		api.AuthMiddleware(),
	)

	{
		resourceSkillsGroup.GET("", handler.ListResourceSkills)
		resourceSkillsGroup.POST("", handler.AssignSkill)
		resourceSkillsGroup.DELETE("", handler.RemoveSkill)
	}
}
