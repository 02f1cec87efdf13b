package availability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JorgeSaicoski/resource-planner/internal/api"
	svc "github.com/JorgeSaicoski/resource-planner/internal/services/availability"
)

type AvailabilityHandler struct {
	availabilityService *svc.AvailabilityService
}

func NewAvailabilityHandler(availabilityService *svc.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
	}
}

// GetAvailability answers the per-week availability view, optionally
// filtered by resource and week.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
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

	var weekStart *time.Time
	if raw := c.Query("weekStart"); raw != "" {
		week, err := parseDate(raw)
		if err != nil {
			api.BadRequest(c, "Invalid weekStart")
			return
		}
		weekStart = &week
	}

	entries, err := h.availabilityService.PerWeek(resourceID, weekStart)
	if err != nil {
		api.Error(c, err, "Failed to compute availability")
		return
	}

	api.List(c, entries, len(entries))
}

// GetSummary answers the cross-week aggregate per active resource.
func (h *AvailabilityHandler) GetSummary(c *gin.Context) {
	summaries, err := h.availabilityService.Summary()
	if err != nil {
		api.Error(c, err, "Failed to compute summary")
		return
	}

	api.List(c, summaries, len(summaries))
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
