package availability

import (
	"github.com/gin-gonic/gin"

	"github.com/JorgeSaicoski/resource-planner/internal/api"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/availability"
)

// RegisterRoutes registers the derived availability views. Both are
// read-only; every response is recomputed from the ledger.
func RegisterRoutes(router *gin.RouterGroup, availabilityService *svc.AvailabilityService) {
	handler := NewAvailabilityHandler(availabilityService)

	availabilityGroup := router.Group("/availability")
	availabilityGroup.Use(
		api.LoggingMiddleware(),
		api.AuthMiddleware(),
	)

	{
		availabilityGroup.GET("", handler.GetAvailability)
	}

	summaryGroup := router.Group("/summary")
	summaryGroup.Use(
		api.LoggingMiddleware(),
		api.AuthMiddleware(),
	)

	{
		summaryGroup.GET("", handler.GetSummary)
	}
}
