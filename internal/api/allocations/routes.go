package allocations

import (
	"github.com/gin-gonic/gin"

	"github.com/JorgeSaicoski/resource-planner/internal/api"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/allocations"
	projectsvc "github.com/JorgeSaicoski/resource-planner/internal/services/projects"
)

// RegisterRoutes registers the allocation ledger routes plus the distinct
// weeks lookup.
func RegisterRoutes(router *gin.RouterGroup, allocationService *svc.AllocationService, projectService *projectsvc.ProjectService) {
	handler := NewAllocationHandler(allocationService, projectService)

	allocationsGroup := router.Group("/allocations")
	allocationsGroup.Use(
		api.LoggingMiddleware(),
		api.AuthMiddleware(),
	)

	{
		allocationsGroup.POST("", handler.CreateAllocation)
		allocationsGroup.GET("", handler.ListAllocations)
		allocationsGroup.GET("/:id", handler.GetAllocation)
		allocationsGroup.PATCH("/:id", handler.UpdateAllocation)
		allocationsGroup.DELETE("/:id", handler.DeleteAllocation)
	}

	weeksGroup := router.Group("/weeks")
	weeksGroup.Use(
		api.LoggingMiddleware(),
		api.AuthMiddleware(),
	)

	{
		weeksGroup.GET("", handler.ListWeeks)
	}
}
