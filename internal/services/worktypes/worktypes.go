package worktypes

import (
	"fmt"
	"sort"
	"time"

	"github.com/JorgeSaicoski/pgconnect"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
	"github.com/JorgeSaicoski/resource-planner/internal/fault"
)

type WorkTypeService struct {
	workTypeRepo   *pgconnect.Repository[db.WorkType]
	allocationRepo *pgconnect.Repository[db.Allocation]
}

func NewWorkTypeService(database *pgconnect.DB) *WorkTypeService {
	return &WorkTypeService{
		workTypeRepo:   pgconnect.NewRepository[db.WorkType](database),
		allocationRepo: pgconnect.NewRepository[db.Allocation](database),
	}
}

func (s *WorkTypeService) CreateWorkType(name string, description, color *string) (*db.WorkType, error) {
	if name == "" {
		return nil, fault.Invalid("name", "Name is required")
	}

	var existing []db.WorkType
	if err := s.workTypeRepo.FindWhere(&existing, "name = ?", name); err != nil {
		return nil, fmt.Errorf("failed to check existing work type: %w", err)
	}
	if len(existing) > 0 {
		return nil, fault.Conflict("Work type with this name already exists")
	}

	now := time.Now()
	workType := &db.WorkType{
		Name:        name,
		Description: description,
		Color:       color,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.workTypeRepo.Create(workType); err != nil {
		return nil, fmt.Errorf("failed to create work type: %w", err)
	}
	return workType, nil
}

func (s *WorkTypeService) ListWorkTypes(isActive *bool) ([]db.WorkType, map[uint]int, error) {
	var workTypes []db.WorkType
	var err error
	if isActive != nil {
		err = s.workTypeRepo.FindWhere(&workTypes, "is_active = ?", *isActive)
	} else {
		err = s.workTypeRepo.FindAll(&workTypes)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve work types: %w", err)
	}
	sort.SliceStable(workTypes, func(i, j int) bool {
		return workTypes[i].Name < workTypes[j].Name
	})

	counts := make(map[uint]int, len(workTypes))
	if len(workTypes) > 0 {
		ids := make([]uint, len(workTypes))
		for i, workType := range workTypes {
			ids[i] = workType.ID
		}
		var allocations []db.Allocation
		if err := s.allocationRepo.FindWhere(&allocations, "work_type_id IN ?", ids); err != nil {
			return nil, nil, fmt.Errorf("failed to count allocations: %w", err)
		}
		for _, allocation := range allocations {
			counts[allocation.WorkTypeID]++
		}
	}
	return workTypes, counts, nil
}
