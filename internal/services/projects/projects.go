package projects

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"log/slog"

	"github.com/JorgeSaicoski/pgconnect"
	"gorm.io/gorm"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
	"github.com/JorgeSaicoski/resource-planner/internal/fault"
)

var log = slog.Default().With(
	slog.String("layer", "service"),
	slog.String("service", "ProjectService"),
)

type ProjectService struct {
	projectRepo    *pgconnect.Repository[db.Project]
	allocationRepo *pgconnect.Repository[db.Allocation]
}

func NewProjectService(database *pgconnect.DB) *ProjectService {
	return &ProjectService{
		projectRepo:    pgconnect.NewRepository[db.Project](database),
		allocationRepo: pgconnect.NewRepository[db.Allocation](database),
	}
}

type CreateProjectInput struct {
	Name        string
	Customer    *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *ProjectService) CreateProject(in *CreateProjectInput) (*db.Project, error) {
	log.Info("create-project:start", "name", in.Name)

	if in.Name == "" {
		return nil, fault.Invalid("name", "Name is required")
	}
	if in.StartDate != nil && in.EndDate != nil && in.StartDate.After(*in.EndDate) {
		return nil, fault.Invalid("startDate", "Start date cannot be after end date")
	}

	var existing []db.Project
	if err := s.projectRepo.FindWhere(&existing, "name = ?", in.Name); err != nil {
		return nil, fmt.Errorf("failed to check existing project: %w", err)
	}
	if len(existing) > 0 {
		return nil, fault.Conflict("Project with this name already exists")
	}

	now := time.Now()
	project := &db.Project{
		Name:        in.Name,
		Customer:    in.Customer,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projectRepo.Create(project); err != nil {
		log.Error("create-project:db-insert-failed", "err", err)
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Info("create-project:success", "projectID", project.ID)
	return project, nil
}

// ListProjects returns projects ordered by name with their allocation
// counts. Customer filtering is a case-insensitive substring match.
func (s *ProjectService) ListProjects(isActive *bool, customer *string) ([]db.Project, map[uint]int, error) {
	log.Debug("list-projects")

	query := "1=1"
	args := []interface{}{}
	if isActive != nil {
		query += " AND is_active = ?"
		args = append(args, *isActive)
	}
	if customer != nil && *customer != "" {
		query += " AND customer ILIKE ?"
		args = append(args, "%"+*customer+"%")
	}

	var projects []db.Project
	if err := s.projectRepo.FindWhere(&projects, query, args...); err != nil {
		log.Error("list-projects:query-failed", "err", err)
		return nil, nil, fmt.Errorf("failed to retrieve projects: %w", err)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Name < projects[j].Name
	})

	counts, err := s.allocationCounts(projects)
	if err != nil {
		return nil, nil, err
	}

	log.Info("list-projects:success", "count", len(projects))
	return projects, counts, nil
}

func (s *ProjectService) GetProject(id uint) (*db.Project, error) {
	var project db.Project
	if err := s.projectRepo.FindByID(id, &project); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.NotFound("Project")
		}
		return nil, fmt.Errorf("failed to look up project: %w", err)
	}
	return &project, nil
}

// ResolveByName maps a human-entered label to a project, creating one when
// no exact name match exists. On a match the customer label is refreshed
// when provided. Upsert-by-unique-name, not fuzzy matching.
func (s *ProjectService) ResolveByName(name string, customer *string) (*db.Project, error) {
	if name == "" {
		return nil, fault.Invalid("name", "Name is required")
	}

	var existing []db.Project
	if err := s.projectRepo.FindWhere(&existing, "name = ?", name); err != nil {
		return nil, fmt.Errorf("failed to resolve project name: %w", err)
	}
	if len(existing) > 0 {
		project := existing[0]
		if customer != nil {
			project.Customer = customer
			project.UpdatedAt = time.Now()
			if err := s.projectRepo.Update(&project); err != nil {
				return nil, fmt.Errorf("failed to refresh project customer: %w", err)
			}
		}
		return &project, nil
	}

	now := time.Now()
	project := &db.Project{
		Name:        name,
		Customer:    customer,
		Description: &name,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project from label: %w", err)
	}

	log.Info("resolve-project:created", "projectID", project.ID, "name", name)
	return project, nil
}

func (s *ProjectService) allocationCounts(projects []db.Project) (map[uint]int, error) {
	counts := make(map[uint]int, len(projects))
	if len(projects) == 0 {
		return counts, nil
	}
	ids := make([]uint, len(projects))
	for i, project := range projects {
		ids[i] = project.ID
	}

	var allocations []db.Allocation
	if err := s.allocationRepo.FindWhere(&allocations, "project_id IN ?", ids); err != nil {
		return nil, fmt.Errorf("failed to count allocations: %w", err)
	}
	for _, allocation := range allocations {
		if allocation.ProjectID != nil {
			counts[*allocation.ProjectID]++
		}
	}
	return counts, nil
}
