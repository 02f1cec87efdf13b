package availability

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"log/slog"

	"github.com/JorgeSaicoski/pgconnect"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
)

var log = slog.Default().With(
	slog.String("layer", "service"),
	slog.String("service", "AvailabilityService"),
)

// AvailabilityService derives remaining availability and overbooking from
// the allocation ledger. Every call recomputes from the matching rows; no
// caching, no incremental state.
type AvailabilityService struct {
	allocationRepo   *pgconnect.Repository[db.Allocation]
	resourceRepo     *pgconnect.Repository[db.Resource]
	resourceRoleRepo *pgconnect.Repository[db.ResourceRole]
	roleRepo         *pgconnect.Repository[db.Role]
	workTypeRepo     *pgconnect.Repository[db.WorkType]
}

func NewAvailabilityService(database *pgconnect.DB) *AvailabilityService {
	return &AvailabilityService{
		allocationRepo:   pgconnect.NewRepository[db.Allocation](database),
		resourceRepo:     pgconnect.NewRepository[db.Resource](database),
		resourceRoleRepo: pgconnect.NewRepository[db.ResourceRole](database),
		roleRepo:         pgconnect.NewRepository[db.Role](database),
		workTypeRepo:     pgconnect.NewRepository[db.WorkType](database),
	}
}

// PerWeek computes one entry per (resource, week) pair covered by the
// filter. Forecast rows without a week are skipped.
func (s *AvailabilityService) PerWeek(resourceID *uint, weekStart *time.Time) ([]db.WeekAvailability, error) {
	query := "week_start IS NOT NULL"
	args := []interface{}{}

	if resourceID != nil {
		query += " AND resource_id = ?"
		args = append(args, *resourceID)
	}
	if weekStart != nil {
		normalized := db.NormalizeWeekStart(*weekStart)
		query += " AND week_start = ?"
		args = append(args, normalized)
	}

	var allocations []db.Allocation
	if err := s.allocationRepo.FindWhere(&allocations, query, args...); err != nil {
		log.Error("per-week:query-failed", "err", err)
		return nil, fmt.Errorf("failed to retrieve allocations: %w", err)
	}

	resourceByID, err := s.resourcesFor(allocations)
	if err != nil {
		return nil, err
	}
	workTypeByID, err := s.workTypesFor(allocations)
	if err != nil {
		return nil, err
	}

	entries := ComputeWeekAvailability(allocations, resourceByID, workTypeByID)
	log.Info("per-week:success", "count", len(entries))
	return entries, nil
}

// Summary aggregates every active resource across all of its allocations.
// Unlike the per-week form, holiday time is not split out here and the
// total includes every allocation regardless of work type; capacity scales
// with the number of distinct allocated weeks.
func (s *AvailabilityService) Summary() ([]db.ResourceSummary, error) {
	var resources []db.Resource
	if err := s.resourceRepo.FindWhere(&resources, "is_active = ?", true); err != nil {
		log.Error("summary:resources-query-failed", "err", err)
		return nil, fmt.Errorf("failed to retrieve resources: %w", err)
	}
	if err := s.attachRoles(resources); err != nil {
		return nil, err
	}

	summaries := make([]db.ResourceSummary, 0, len(resources))
	for _, resource := range resources {
		var allocations []db.Allocation
		if err := s.allocationRepo.FindWhere(&allocations, "resource_id = ?", resource.ID); err != nil {
			return nil, fmt.Errorf("failed to retrieve allocations for resource %d: %w", resource.ID, err)
		}
		summaries = append(summaries, SummarizeResource(resource, allocations))
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].ResourceName < summaries[j].ResourceName
	})
	log.Info("summary:success", "count", len(summaries))
	return summaries, nil
}

// ComputeWeekAvailability is the pure per-week calculation: partition each
// allocation's days into holiday vs other work, then compare against the
// fixed weekly capacity. The overbooked flag deliberately ignores holiday
// days while the availability-left figure subtracts both.
func ComputeWeekAvailability(
	allocations []db.Allocation,
	resourceByID map[uint]db.Resource,
	workTypeByID map[uint]db.WorkType,
) []db.WeekAvailability {
	type groupKey struct {
		resourceID uint
		week       string
	}
	groups := make(map[groupKey]*db.WeekAvailability)
	order := []groupKey{}

	for _, allocation := range allocations {
		if allocation.WeekStart == nil {
			continue
		}
		key := groupKey{allocation.ResourceID, db.WeekKey(*allocation.WeekStart)}
		entry, ok := groups[key]
		if !ok {
			resource := resourceByID[allocation.ResourceID]
			entry = &db.WeekAvailability{
				ResourceID:    allocation.ResourceID,
				ResourceName:  resource.Name,
				ResourceRoles: db.FlattenRoles(resource.Roles),
				WeekStart:     key.week,
			}
			groups[key] = entry
			order = append(order, key)
		}

		workType := workTypeByID[allocation.WorkTypeID]
		if strings.EqualFold(workType.Name, db.HolidayWorkTypeName) {
			entry.HolidayDays += allocation.Days
		} else {
			entry.TotalAllocated += allocation.Days
		}
	}

	entries := make([]db.WeekAvailability, 0, len(order))
	for _, key := range order {
		entry := groups[key]
		entry.AvailabilityLeft = round2(db.DefaultWeeklyCapacity - entry.TotalAllocated - entry.HolidayDays)
		entry.Overbooked = entry.TotalAllocated > db.DefaultWeeklyCapacity
		entries = append(entries, *entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ResourceName != entries[j].ResourceName {
			return entries[i].ResourceName < entries[j].ResourceName
		}
		return entries[i].WeekStart < entries[j].WeekStart
	})
	return entries
}

// SummarizeResource is the pure aggregate calculation for one resource.
func SummarizeResource(resource db.Resource, allocations []db.Allocation) db.ResourceSummary {
	totalAllocated := 0.0
	weeks := make(map[string]bool)
	for _, allocation := range allocations {
		totalAllocated += allocation.Days
		if allocation.WeekStart != nil {
			weeks[db.WeekKey(*allocation.WeekStart)] = true
		}
	}

	distinctWeeks := len(weeks)
	totalCapacity := db.DefaultWeeklyCapacity * float64(distinctWeeks)

	return db.ResourceSummary{
		ResourceID:          resource.ID,
		ResourceName:        resource.Name,
		ResourceRoles:       db.FlattenRoles(resource.Roles),
		TotalAllocated:      totalAllocated,
		TotalCapacity:       totalCapacity,
		AvailabilityLeft:    totalCapacity - totalAllocated,
		Overbooked:          totalAllocated > totalCapacity,
		DistinctWeeks:       distinctWeeks,
		DefaultAvailability: db.DefaultWeeklyCapacity,
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func (s *AvailabilityService) resourcesFor(allocations []db.Allocation) (map[uint]db.Resource, error) {
	ids := make([]uint, 0, len(allocations))
	seen := make(map[uint]bool)
	for _, allocation := range allocations {
		if !seen[allocation.ResourceID] {
			seen[allocation.ResourceID] = true
			ids = append(ids, allocation.ResourceID)
		}
	}
	byID := make(map[uint]db.Resource, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	var resources []db.Resource
	if err := s.resourceRepo.FindWhere(&resources, "id IN ?", ids); err != nil {
		return nil, fmt.Errorf("failed to load resources: %w", err)
	}
	if err := s.attachRoles(resources); err != nil {
		return nil, err
	}
	for _, resource := range resources {
		byID[resource.ID] = resource
	}
	return byID, nil
}

func (s *AvailabilityService) workTypesFor(allocations []db.Allocation) (map[uint]db.WorkType, error) {
	ids := make([]uint, 0, len(allocations))
	seen := make(map[uint]bool)
	for _, allocation := range allocations {
		if !seen[allocation.WorkTypeID] {
			seen[allocation.WorkTypeID] = true
			ids = append(ids, allocation.WorkTypeID)
		}
	}
	byID := make(map[uint]db.WorkType, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	var workTypes []db.WorkType
	if err := s.workTypeRepo.FindWhere(&workTypes, "id IN ?", ids); err != nil {
		return nil, fmt.Errorf("failed to load work types: %w", err)
	}
	for _, workType := range workTypes {
		byID[workType.ID] = workType
	}
	return byID, nil
}

func (s *AvailabilityService) attachRoles(resources []db.Resource) error {
	if len(resources) == 0 {
		return nil
	}
	ids := make([]uint, len(resources))
	for i, resource := range resources {
		ids[i] = resource.ID
	}

	var joins []db.ResourceRole
	if err := s.resourceRoleRepo.FindWhere(&joins, "resource_id IN ?", ids); err != nil {
		return fmt.Errorf("failed to load resource roles: %w", err)
	}

	roleIDs := make([]uint, 0, len(joins))
	seen := make(map[uint]bool)
	for _, join := range joins {
		if !seen[join.RoleID] {
			seen[join.RoleID] = true
			roleIDs = append(roleIDs, join.RoleID)
		}
	}
	roleByID := make(map[uint]db.Role)
	if len(roleIDs) > 0 {
		var roles []db.Role
		if err := s.roleRepo.FindWhere(&roles, "id IN ?", roleIDs); err != nil {
			return fmt.Errorf("failed to load roles: %w", err)
		}
		for _, role := range roles {
			roleByID[role.ID] = role
		}
	}

	joinsByResource := make(map[uint][]db.ResourceRole)
	for _, join := range joins {
		join.Role = roleByID[join.RoleID]
		joinsByResource[join.ResourceID] = append(joinsByResource[join.ResourceID], join)
	}
	for i := range resources {
		resources[i].Roles = joinsByResource[resources[i].ID]
	}
	return nil
}
