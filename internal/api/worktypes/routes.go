package worktypes

import (
	"github.com/gin-gonic/gin"

	"github.com/JorgeSaicoski/resource-planner/internal/api"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/worktypes"
)

// RegisterRoutes registers the work type catalog routes.
func RegisterRoutes(router *gin.RouterGroup, workTypeService *svc.WorkTypeService) {
	handler := NewWorkTypeHandler(workTypeService)

	workTypesGroup := router.Group("/work-types")
	workTypesGroup.Use(
		api.LoggingMiddleware(),
		api.AuthMiddleware(),
	)

	{
		workTypesGroup.GET("", handler.ListWorkTypes)
		workTypesGroup.POST("", handler.CreateWorkType)
	}
}
