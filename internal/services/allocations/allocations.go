package allocations

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"log/slog"

	"github.com/JorgeSaicoski/pgconnect"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
	"github.com/JorgeSaicoski/resource-planner/internal/fault"
)

/* ------------------------------------------------------------------ */
/*  Logger                                                            */
/* ------------------------------------------------------------------ */

var log = slog.Default().With(
	slog.String("layer", "service"),
	slog.String("service", "AllocationService"),
)

const conflictMessage = "Allocation already exists for this resource, project, work type, and week"

/* ------------------------------------------------------------------ */
/*  Service definition & constructor                                  */
/* ------------------------------------------------------------------ */

// AllocationService owns the allocation ledger: it maintains the records
// and rejects operations that would violate the per-tuple uniqueness
// invariant. The explicit tuple check runs before every write; the database
// unique index remains the authoritative rejection for races the check
// cannot see.
type AllocationService struct {
	allocationRepo   *pgconnect.Repository[db.Allocation]
	resourceRepo     *pgconnect.Repository[db.Resource]
	projectRepo      *pgconnect.Repository[db.Project]
	workTypeRepo     *pgconnect.Repository[db.WorkType]
	resourceRoleRepo *pgconnect.Repository[db.ResourceRole]
	roleRepo         *pgconnect.Repository[db.Role]
}

func NewAllocationService(database *pgconnect.DB) *AllocationService {
	return &AllocationService{
		allocationRepo:   pgconnect.NewRepository[db.Allocation](database),
		resourceRepo:     pgconnect.NewRepository[db.Resource](database),
		projectRepo:      pgconnect.NewRepository[db.Project](database),
		workTypeRepo:     pgconnect.NewRepository[db.WorkType](database),
		resourceRoleRepo: pgconnect.NewRepository[db.ResourceRole](database),
		roleRepo:         pgconnect.NewRepository[db.Role](database),
	}
}

/* ------------------------------------------------------------------ */
/*  Inputs                                                            */
/* ------------------------------------------------------------------ */

type CreateAllocationInput struct {
	ResourceID  uint
	ProjectID   *uint
	WorkTypeID  uint
	WeekStart   *time.Time
	Days        float64
	Notes       *string
	Status      string
	RoleLabel   *string
	Quantity    *int
	DaysPerWeek *float64
	NumWeeks    *int
	StartDate   *time.Time
}

// UpdateAllocationInput carries a partial update. Plain pointers mean
// "absent when nil"; Optional fields additionally distinguish an explicit
// null, which clears the column.
type UpdateAllocationInput struct {
	ResourceID  *uint
	ProjectID   Optional[uint]
	WorkTypeID  *uint
	WeekStart   *time.Time
	Days        *float64
	Notes       Optional[string]
	Status      *string
	RoleLabel   Optional[string]
	Quantity    *int
	DaysPerWeek *float64
	NumWeeks    *int
	StartDate   Optional[time.Time]
}

type ListFilter struct {
	ProjectID  *uint
	ResourceID *uint
	WeekStart  *time.Time
	WeekEnd    *time.Time
	Status     *string
	RoleIDs    []uint
}

/* ------------------------------------------------------------------ */
/*  Ledger operations                                                 */
/* ------------------------------------------------------------------ */

func (s *AllocationService) CreateAllocation(in *CreateAllocationInput) (*db.Allocation, error) {
	log.Info("create-allocation:start", "resourceID", in.ResourceID, "workTypeID", in.WorkTypeID)

	if in.Status == "" {
		in.Status = db.AllocationStatusConfirmed
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	if err := s.checkResourceExists(in.ResourceID); err != nil {
		return nil, err
	}
	if err := s.checkWorkTypeExists(in.WorkTypeID); err != nil {
		return nil, err
	}
	if in.ProjectID != nil {
		if err := s.checkProjectExists(*in.ProjectID); err != nil {
			return nil, err
		}
	}

	if in.WeekStart != nil {
		normalized := db.NormalizeWeekStart(*in.WeekStart)
		in.WeekStart = &normalized
	}

	key := allocationKey{
		ResourceID: in.ResourceID,
		ProjectID:  in.ProjectID,
		WorkTypeID: in.WorkTypeID,
		WeekStart:  in.WeekStart,
	}
	conflicting, err := s.findConflict(key, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check allocation conflict: %w", err)
	}
	if conflicting {
		log.Warn("create-allocation:conflict", "resourceID", in.ResourceID)
		return nil, fault.Conflict(conflictMessage)
	}

	now := time.Now()
	allocation := &db.Allocation{
		ResourceID:  in.ResourceID,
		ProjectID:   in.ProjectID,
		WorkTypeID:  in.WorkTypeID,
		WeekStart:   in.WeekStart,
		Days:        in.Days,
		Notes:       in.Notes,
		Status:      in.Status,
		RoleLabel:   in.RoleLabel,
		Quantity:    in.Quantity,
		DaysPerWeek: in.DaysPerWeek,
		NumWeeks:    in.NumWeeks,
		StartDate:   in.StartDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.allocationRepo.Create(allocation); err != nil {
		if isUniqueViolation(err) {
			// The pre-check raced another writer; the constraint is the
			// authority.
			log.Warn("create-allocation:constraint-conflict", "resourceID", in.ResourceID)
			return nil, fault.Conflict(conflictMessage)
		}
		log.Error("create-allocation:db-insert-failed", "err", err)
		return nil, fmt.Errorf("failed to create allocation: %w", err)
	}

	if err := s.loadRelations([]db.Allocation{*allocation}, allocation); err != nil {
		return nil, err
	}

	log.Info("create-allocation:success", "allocationID", allocation.ID)
	return allocation, nil
}

func (s *AllocationService) GetAllocation(id uint) (*db.Allocation, error) {
	log.Debug("get-allocation", "allocationID", id)

	var allocation db.Allocation
	if err := s.allocationRepo.FindByID(id, &allocation); err != nil {
		return nil, s.wrapLookupErr(err, "Allocation")
	}
	if err := s.loadRelations([]db.Allocation{allocation}, &allocation); err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (s *AllocationService) UpdateAllocation(id uint, in *UpdateAllocationInput) (*db.Allocation, error) {
	log.Info("update-allocation:start", "allocationID", id)

	var existing db.Allocation
	if err := s.allocationRepo.FindByID(id, &existing); err != nil {
		return nil, s.wrapLookupErr(err, "Allocation")
	}

	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	if in.ResourceID != nil {
		if err := s.checkResourceExists(*in.ResourceID); err != nil {
			return nil, err
		}
	}
	if in.WorkTypeID != nil {
		if err := s.checkWorkTypeExists(*in.WorkTypeID); err != nil {
			return nil, err
		}
	}
	if in.ProjectID.Set && in.ProjectID.Value != nil {
		if err := s.checkProjectExists(*in.ProjectID.Value); err != nil {
			return nil, err
		}
	}

	if in.WeekStart != nil {
		normalized := db.NormalizeWeekStart(*in.WeekStart)
		in.WeekStart = &normalized
	}

	// Re-check the uniqueness tuple whenever a key component changes. The
	// effective tuple merges unchanged fields from the existing record.
	if keyChanged(in) {
		key := mergeKey(existing, in)
		conflicting, err := s.findConflict(key, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check allocation conflict: %w", err)
		}
		if conflicting {
			log.Warn("update-allocation:conflict", "allocationID", id)
			return nil, fault.Conflict(conflictMessage)
		}
	}

	applyUpdate(&existing, in)
	existing.UpdatedAt = time.Now()

	if err := s.allocationRepo.Update(&existing); err != nil {
		if isUniqueViolation(err) {
			return nil, fault.Conflict(conflictMessage)
		}
		log.Error("update-allocation:db-update-failed", "err", err)
		return nil, fmt.Errorf("failed to update allocation: %w", err)
	}

	if err := s.loadRelations([]db.Allocation{existing}, &existing); err != nil {
		return nil, err
	}

	log.Info("update-allocation:success", "allocationID", id)
	return &existing, nil
}

func (s *AllocationService) DeleteAllocation(id uint) error {
	log.Info("delete-allocation:start", "allocationID", id)

	var allocation db.Allocation
	if err := s.allocationRepo.FindByID(id, &allocation); err != nil {
		return s.wrapLookupErr(err, "Allocation")
	}
	if err := s.allocationRepo.Delete(&allocation); err != nil {
		log.Error("delete-allocation:db-delete-failed", "err", err)
		return fmt.Errorf("failed to delete allocation: %w", err)
	}

	log.Info("delete-allocation:success", "allocationID", id)
	return nil
}

// ListAllocations returns expanded records matching the filter, sorted by
// resource name then week ascending.
func (s *AllocationService) ListAllocations(filter *ListFilter) ([]db.Allocation, error) {
	log.Debug("list-allocations")

	query := "1=1"
	args := []interface{}{}

	if filter.ProjectID != nil {
		query += " AND project_id = ?"
		args = append(args, *filter.ProjectID)
	}
	if filter.ResourceID != nil {
		query += " AND resource_id = ?"
		args = append(args, *filter.ResourceID)
	}
	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, *filter.Status)
	}
	if filter.WeekStart != nil {
		query += " AND week_start >= ?"
		args = append(args, *filter.WeekStart)
	}
	if filter.WeekEnd != nil {
		query += " AND week_start <= ?"
		args = append(args, *filter.WeekEnd)
	}

	if len(filter.RoleIDs) > 0 {
		resourceIDs, err := s.resourceIDsWithAnyRole(filter.RoleIDs)
		if err != nil {
			return nil, err
		}
		if len(resourceIDs) == 0 {
			return []db.Allocation{}, nil
		}
		query += " AND resource_id IN ?"
		args = append(args, resourceIDs)
	}

	var allocations []db.Allocation
	if err := s.allocationRepo.FindWhere(&allocations, query, args...); err != nil {
		log.Error("list-allocations:query-failed", "err", err)
		return nil, fmt.Errorf("failed to retrieve allocations: %w", err)
	}

	if err := s.loadRelations(allocations, nil); err != nil {
		return nil, err
	}
	sortAllocations(allocations)

	log.Info("list-allocations:success", "count", len(allocations))
	return allocations, nil
}

// ListWeeks returns the distinct non-null week start dates present in the
// ledger, ascending.
func (s *AllocationService) ListWeeks() ([]time.Time, error) {
	var allocations []db.Allocation
	if err := s.allocationRepo.FindWhere(&allocations, "week_start IS NOT NULL"); err != nil {
		return nil, fmt.Errorf("failed to retrieve weeks: %w", err)
	}

	seen := make(map[string]time.Time)
	for _, allocation := range allocations {
		if allocation.WeekStart == nil {
			continue
		}
		seen[db.WeekKey(*allocation.WeekStart)] = *allocation.WeekStart
	}

	weeks := make([]time.Time, 0, len(seen))
	for _, week := range seen {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
	return weeks, nil
}

/* ------------------------------------------------------------------ */
/*  Conflict detection                                                */
/* ------------------------------------------------------------------ */

// findConflict reports whether another allocation occupies the tuple.
// Null project and week components need IS NULL matching, which is why the
// query is assembled instead of relying on the unique index alone.
func (s *AllocationService) findConflict(key allocationKey, excludeID uint) (bool, error) {
	query := "resource_id = ? AND work_type_id = ?"
	args := []interface{}{key.ResourceID, key.WorkTypeID}

	if key.ProjectID != nil {
		query += " AND project_id = ?"
		args = append(args, *key.ProjectID)
	} else {
		query += " AND project_id IS NULL"
	}
	if key.WeekStart != nil {
		query += " AND week_start = ?"
		args = append(args, *key.WeekStart)
	} else {
		query += " AND week_start IS NULL"
	}

	var matches []db.Allocation
	if err := s.allocationRepo.FindWhere(&matches, query, args...); err != nil {
		return false, err
	}
	for _, match := range matches {
		if match.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

/* ------------------------------------------------------------------ */
/*  Helpers                                                           */
/* ------------------------------------------------------------------ */

func (s *AllocationService) checkResourceExists(id uint) error {
	var resource db.Resource
	if err := s.resourceRepo.FindByID(id, &resource); err != nil {
		return s.wrapLookupErr(err, "Resource")
	}
	return nil
}

func (s *AllocationService) checkProjectExists(id uint) error {
	var project db.Project
	if err := s.projectRepo.FindByID(id, &project); err != nil {
		return s.wrapLookupErr(err, "Project")
	}
	return nil
}

func (s *AllocationService) checkWorkTypeExists(id uint) error {
	var workType db.WorkType
	if err := s.workTypeRepo.FindByID(id, &workType); err != nil {
		return s.wrapLookupErr(err, "Work type")
	}
	return nil
}

func (s *AllocationService) wrapLookupErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fault.NotFound(entity)
	}
	return fmt.Errorf("failed to look up %s: %w", entity, err)
}

func (s *AllocationService) resourceIDsWithAnyRole(roleIDs []uint) ([]uint, error) {
	var joins []db.ResourceRole
	if err := s.resourceRoleRepo.FindWhere(&joins, "role_id IN ?", roleIDs); err != nil {
		return nil, fmt.Errorf("failed to resolve role filter: %w", err)
	}
	seen := make(map[uint]bool)
	ids := make([]uint, 0, len(joins))
	for _, join := range joins {
		if !seen[join.ResourceID] {
			seen[join.ResourceID] = true
			ids = append(ids, join.ResourceID)
		}
	}
	return ids, nil
}

// loadRelations batch-loads resources (with flattened-ready roles), projects
// and work types for the given allocations. When single is non-nil the
// relations are attached to it instead (create/update/get paths).
func (s *AllocationService) loadRelations(allocations []db.Allocation, single *db.Allocation) error {
	if len(allocations) == 0 {
		return nil
	}

	resourceIDs := make([]uint, 0, len(allocations))
	projectIDs := make([]uint, 0, len(allocations))
	workTypeIDs := make([]uint, 0, len(allocations))
	seenResource := make(map[uint]bool)
	seenProject := make(map[uint]bool)
	seenWorkType := make(map[uint]bool)

	for _, allocation := range allocations {
		if !seenResource[allocation.ResourceID] {
			seenResource[allocation.ResourceID] = true
			resourceIDs = append(resourceIDs, allocation.ResourceID)
		}
		if allocation.ProjectID != nil && !seenProject[*allocation.ProjectID] {
			seenProject[*allocation.ProjectID] = true
			projectIDs = append(projectIDs, *allocation.ProjectID)
		}
		if !seenWorkType[allocation.WorkTypeID] {
			seenWorkType[allocation.WorkTypeID] = true
			workTypeIDs = append(workTypeIDs, allocation.WorkTypeID)
		}
	}

	var resources []db.Resource
	if err := s.resourceRepo.FindWhere(&resources, "id IN ?", resourceIDs); err != nil {
		return fmt.Errorf("failed to load allocation resources: %w", err)
	}
	if err := s.attachResourceRoles(resources); err != nil {
		return err
	}
	resourceByID := make(map[uint]db.Resource, len(resources))
	for _, resource := range resources {
		resourceByID[resource.ID] = resource
	}

	projectByID := make(map[uint]db.Project)
	if len(projectIDs) > 0 {
		var projects []db.Project
		if err := s.projectRepo.FindWhere(&projects, "id IN ?", projectIDs); err != nil {
			return fmt.Errorf("failed to load allocation projects: %w", err)
		}
		for _, project := range projects {
			projectByID[project.ID] = project
		}
	}

	var workTypes []db.WorkType
	if err := s.workTypeRepo.FindWhere(&workTypes, "id IN ?", workTypeIDs); err != nil {
		return fmt.Errorf("failed to load allocation work types: %w", err)
	}
	workTypeByID := make(map[uint]db.WorkType, len(workTypes))
	for _, workType := range workTypes {
		workTypeByID[workType.ID] = workType
	}

	attach := func(allocation *db.Allocation) {
		allocation.Resource = resourceByID[allocation.ResourceID]
		allocation.WorkType = workTypeByID[allocation.WorkTypeID]
		if allocation.ProjectID != nil {
			if project, ok := projectByID[*allocation.ProjectID]; ok {
				allocation.Project = &project
			}
		}
	}

	if single != nil {
		attach(single)
		return nil
	}
	for i := range allocations {
		attach(&allocations[i])
	}
	return nil
}

func (s *AllocationService) attachResourceRoles(resources []db.Resource) error {
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

func sortAllocations(allocations []db.Allocation) {
	sort.SliceStable(allocations, func(i, j int) bool {
		if allocations[i].Resource.Name != allocations[j].Resource.Name {
			return allocations[i].Resource.Name < allocations[j].Resource.Name
		}
		wi, wj := allocations[i].WeekStart, allocations[j].WeekStart
		switch {
		case wi == nil && wj == nil:
			return allocations[i].ID < allocations[j].ID
		case wi == nil:
			return true
		case wj == nil:
			return false
		default:
			return wi.Before(*wj)
		}
	})
}
