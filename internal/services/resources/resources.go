package resources

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"log/slog"

	"github.com/JorgeSaicoski/pgconnect"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/JorgeSaicoski/resource-planner/internal/db"
	"github.com/JorgeSaicoski/resource-planner/internal/fault"
)

var log = slog.Default().With(
	slog.String("layer", "service"),
	slog.String("service", "ResourceService"),
)

const bcryptCost = 10
const minPasswordLength = 6

// ResourceService manages the people catalog: resources, their roles and
// their skills. Resources are archived, never deleted.
type ResourceService struct {
	resourceRepo      *pgconnect.Repository[db.Resource]
	roleRepo          *pgconnect.Repository[db.Role]
	resourceRoleRepo  *pgconnect.Repository[db.ResourceRole]
	skillRepo         *pgconnect.Repository[db.Skill]
	resourceSkillRepo *pgconnect.Repository[db.ResourceSkill]
	allocationRepo    *pgconnect.Repository[db.Allocation]
}

func NewResourceService(database *pgconnect.DB) *ResourceService {
	return &ResourceService{
		resourceRepo:      pgconnect.NewRepository[db.Resource](database),
		roleRepo:          pgconnect.NewRepository[db.Role](database),
		resourceRoleRepo:  pgconnect.NewRepository[db.ResourceRole](database),
		skillRepo:         pgconnect.NewRepository[db.Skill](database),
		resourceSkillRepo: pgconnect.NewRepository[db.ResourceSkill](database),
		allocationRepo:    pgconnect.NewRepository[db.Allocation](database),
	}
}

/* ------------------------------------------------------------------ */
/*  Resources                                                         */
/* ------------------------------------------------------------------ */

type CreateResourceInput struct {
	Name     string
	Email    string
	RoleIDs  []uint
	JobTitle *string
	Password *string
}

type UpdateResourceInput struct {
	Name     *string
	Email    *string
	JobTitle *string
	IsActive *bool
	Password *string
	RoleIDs  []uint // nil means unchanged; non-nil replaces all role links
}

func (s *ResourceService) CreateResource(in *CreateResourceInput) (*db.Resource, error) {
	log.Info("create-resource:start", "email", in.Email)

	if in.Name == "" || in.Email == "" || len(in.RoleIDs) == 0 {
		return nil, fault.Invalid("name", "Name, email, and at least one role are required")
	}

	var existing []db.Resource
	if err := s.resourceRepo.FindWhere(&existing, "email = ?", in.Email); err != nil {
		return nil, fmt.Errorf("failed to check existing resource: %w", err)
	}
	if len(existing) > 0 {
		return nil, fault.Conflict("Resource with this email already exists")
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resource := &db.Resource{
		Name:      in.Name,
		Email:     in.Email,
		JobTitle:  in.JobTitle,
		Password:  hashed,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.resourceRepo.Create(resource); err != nil {
		log.Error("create-resource:db-insert-failed", "err", err)
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := s.replaceRoles(resource.ID, in.RoleIDs); err != nil {
		return nil, err
	}
	if err := s.attachRoles(resource); err != nil {
		return nil, err
	}

	log.Info("create-resource:success", "resourceID", resource.ID)
	return resource, nil
}

func (s *ResourceService) UpdateResource(id uint, in *UpdateResourceInput) (*db.Resource, error) {
	log.Info("update-resource:start", "resourceID", id)

	var resource db.Resource
	if err := s.resourceRepo.FindByID(id, &resource); err != nil {
		return nil, s.wrapLookupErr(err, "Resource")
	}

	if in.Name != nil {
		resource.Name = *in.Name
	}
	if in.Email != nil {
		resource.Email = *in.Email
	}
	if in.JobTitle != nil {
		resource.JobTitle = in.JobTitle
	}
	if in.IsActive != nil {
		resource.IsActive = *in.IsActive
	}
	if in.Password != nil {
		hashed, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		resource.Password = hashed
	}
	resource.UpdatedAt = time.Now()

	if err := s.resourceRepo.Update(&resource); err != nil {
		log.Error("update-resource:db-update-failed", "err", err)
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}

	if in.RoleIDs != nil {
		if err := s.replaceRoles(resource.ID, in.RoleIDs); err != nil {
			return nil, err
		}
	}
	if err := s.attachRoles(&resource); err != nil {
		return nil, err
	}

	log.Info("update-resource:success", "resourceID", id)
	return &resource, nil
}

// ListResources returns resources with flattened-ready roles and their
// allocation counts, ordered by name.
func (s *ResourceService) ListResources(isActive *bool) ([]db.Resource, map[uint]int, error) {
	log.Debug("list-resources")

	var resources []db.Resource
	var err error
	if isActive != nil {
		err = s.resourceRepo.FindWhere(&resources, "is_active = ?", *isActive)
	} else {
		err = s.resourceRepo.FindAll(&resources)
	}
	if err != nil {
		log.Error("list-resources:query-failed", "err", err)
		return nil, nil, fmt.Errorf("failed to retrieve resources: %w", err)
	}

	for i := range resources {
		if err := s.attachRoles(&resources[i]); err != nil {
			return nil, nil, err
		}
	}
	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].Name < resources[j].Name
	})

	counts, err := s.allocationCounts(resources)
	if err != nil {
		return nil, nil, err
	}

	log.Info("list-resources:success", "count", len(resources))
	return resources, counts, nil
}

/* ------------------------------------------------------------------ */
/*  Roles                                                             */
/* ------------------------------------------------------------------ */

func (s *ResourceService) ListRoles() ([]db.Role, error) {
	var roles []db.Role
	if err := s.roleRepo.FindAll(&roles); err != nil {
		return nil, fmt.Errorf("failed to retrieve roles: %w", err)
	}
	sort.SliceStable(roles, func(i, j int) bool {
		return roles[i].Label < roles[j].Label
	})
	return roles, nil
}

// EnsureDefaultRoles seeds the built-in role catalog on startup. Existing
// roles are left untouched.
func (s *ResourceService) EnsureDefaultRoles() error {
	defaults := []db.Role{
		{Name: "admin", Label: "Admin", IsAdmin: true, IsPlannable: false},
		{Name: "Consultant", Label: "Consultant", IsPlannable: true},
		{Name: "Developer", Label: "Developer", IsPlannable: true},
		{Name: "Project Manager", Label: "Project Manager", IsPlannable: true},
		{Name: "QA", Label: "QA", IsPlannable: true},
		{Name: "Designer", Label: "Designer", IsPlannable: true},
		{Name: "Solution Lead", Label: "Solution Lead", IsPlannable: true},
		{Name: "Other", Label: "Other", IsPlannable: true},
	}

	for _, role := range defaults {
		var existing []db.Role
		if err := s.roleRepo.FindWhere(&existing, "name = ?", role.Name); err != nil {
			return fmt.Errorf("failed to check role %q: %w", role.Name, err)
		}
		if len(existing) > 0 {
			continue
		}
		role.CreatedAt = time.Now()
		role.UpdatedAt = role.CreatedAt
		if err := s.roleRepo.Create(&role); err != nil {
			return fmt.Errorf("failed to seed role %q: %w", role.Name, err)
		}
	}
	return nil
}

/* ------------------------------------------------------------------ */
/*  Skills                                                            */
/* ------------------------------------------------------------------ */

func (s *ResourceService) ListSkills() ([]db.Skill, error) {
	var skills []db.Skill
	if err := s.skillRepo.FindAll(&skills); err != nil {
		return nil, fmt.Errorf("failed to retrieve skills: %w", err)
	}
	sort.SliceStable(skills, func(i, j int) bool {
		return skills[i].Name < skills[j].Name
	})
	return skills, nil
}

func (s *ResourceService) CreateSkill(name string, description *string) (*db.Skill, error) {
	if name == "" {
		return nil, fault.Invalid("name", "Name is required")
	}

	var existing []db.Skill
	if err := s.skillRepo.FindWhere(&existing, "name = ?", name); err != nil {
		return nil, fmt.Errorf("failed to check existing skill: %w", err)
	}
	if len(existing) > 0 {
		return nil, fault.Conflict("Skill with this name already exists")
	}

	now := time.Now()
	skill := &db.Skill{Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
	if err := s.skillRepo.Create(skill); err != nil {
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}
	return skill, nil
}

func (s *ResourceService) DeleteSkill(id uint) error {
	var skill db.Skill
	if err := s.skillRepo.FindByID(id, &skill); err != nil {
		return s.wrapLookupErr(err, "Skill")
	}
	if err := s.skillRepo.Delete(&skill); err != nil {
		return fmt.Errorf("failed to delete skill: %w", err)
	}
	return nil
}

/* ------------------------------------------------------------------ */
/*  Resource skills                                                   */
/* ------------------------------------------------------------------ */

type AssignSkillInput struct {
	ResourceID  uint
	SkillID     uint
	Proficiency *string
	ExpiresAt   *time.Time
	Notes       *string
}

func (s *ResourceService) ListResourceSkills(resourceID *uint) ([]db.ResourceSkill, error) {
	var assignments []db.ResourceSkill
	var err error
	if resourceID != nil {
		err = s.resourceSkillRepo.FindWhere(&assignments, "resource_id = ?", *resourceID)
	} else {
		err = s.resourceSkillRepo.FindAll(&assignments)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve resource skills: %w", err)
	}

	for i := range assignments {
		if err := s.resourceRepo.FindByID(assignments[i].ResourceID, &assignments[i].Resource); err != nil {
			return nil, fmt.Errorf("failed to load resource for skill assignment: %w", err)
		}
		if err := s.skillRepo.FindByID(assignments[i].SkillID, &assignments[i].Skill); err != nil {
			return nil, fmt.Errorf("failed to load skill for skill assignment: %w", err)
		}
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		if assignments[i].Resource.Name != assignments[j].Resource.Name {
			return assignments[i].Resource.Name < assignments[j].Resource.Name
		}
		return assignments[i].Skill.Name < assignments[j].Skill.Name
	})
	return assignments, nil
}

func (s *ResourceService) AssignSkill(in *AssignSkillInput) (*db.ResourceSkill, error) {
	if in.ResourceID == 0 || in.SkillID == 0 {
		return nil, fault.Invalid("resourceId", "resourceId and skillId are required")
	}
	var resource db.Resource
	if err := s.resourceRepo.FindByID(in.ResourceID, &resource); err != nil {
		return nil, s.wrapLookupErr(err, "Resource")
	}
	var skill db.Skill
	if err := s.skillRepo.FindByID(in.SkillID, &skill); err != nil {
		return nil, s.wrapLookupErr(err, "Skill")
	}

	assignment := &db.ResourceSkill{
		ResourceID:  in.ResourceID,
		SkillID:     in.SkillID,
		Proficiency: in.Proficiency,
		ExpiresAt:   in.ExpiresAt,
		Notes:       in.Notes,
		CreatedAt:   time.Now(),
	}
	if err := s.resourceSkillRepo.Create(assignment); err != nil {
		return nil, fmt.Errorf("failed to assign skill: %w", err)
	}
	assignment.Resource = resource
	assignment.Skill = skill
	return assignment, nil
}

func (s *ResourceService) RemoveSkill(id uint) error {
	var assignment db.ResourceSkill
	if err := s.resourceSkillRepo.FindByID(id, &assignment); err != nil {
		return s.wrapLookupErr(err, "Resource skill")
	}
	if err := s.resourceSkillRepo.Delete(&assignment); err != nil {
		return fmt.Errorf("failed to remove skill: %w", err)
	}
	return nil
}

/* ------------------------------------------------------------------ */
/*  Helpers                                                           */
/* ------------------------------------------------------------------ */

func hashPassword(password *string) (*string, error) {
	if password == nil || *password == "" {
		return nil, nil
	}
	if len(*password) < minPasswordLength {
		return nil, fault.Invalid("password", "Password must be at least 6 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	value := string(hashed)
	return &value, nil
}

// replaceRoles removes every existing role link and recreates the given
// set, matching the admin panel's replace-all semantics.
func (s *ResourceService) replaceRoles(resourceID uint, roleIDs []uint) error {
	for _, roleID := range roleIDs {
		var role db.Role
		if err := s.roleRepo.FindByID(roleID, &role); err != nil {
			return s.wrapLookupErr(err, "Role")
		}
	}

	var existing []db.ResourceRole
	if err := s.resourceRoleRepo.FindWhere(&existing, "resource_id = ?", resourceID); err != nil {
		return fmt.Errorf("failed to load existing role links: %w", err)
	}
	for i := range existing {
		if err := s.resourceRoleRepo.Delete(&existing[i]); err != nil {
			return fmt.Errorf("failed to remove role link: %w", err)
		}
	}
	for _, roleID := range roleIDs {
		link := &db.ResourceRole{ResourceID: resourceID, RoleID: roleID}
		if err := s.resourceRoleRepo.Create(link); err != nil {
			return fmt.Errorf("failed to link role %d: %w", roleID, err)
		}
	}
	return nil
}

func (s *ResourceService) attachRoles(resource *db.Resource) error {
	var joins []db.ResourceRole
	if err := s.resourceRoleRepo.FindWhere(&joins, "resource_id = ?", resource.ID); err != nil {
		return fmt.Errorf("failed to load resource roles: %w", err)
	}
	for i := range joins {
		if err := s.roleRepo.FindByID(joins[i].RoleID, &joins[i].Role); err != nil {
			return fmt.Errorf("failed to load role: %w", err)
		}
	}
	resource.Roles = joins
	return nil
}

func (s *ResourceService) allocationCounts(resources []db.Resource) (map[uint]int, error) {
	counts := make(map[uint]int, len(resources))
	if len(resources) == 0 {
		return counts, nil
	}
	ids := make([]uint, len(resources))
	for i, resource := range resources {
		ids[i] = resource.ID
	}

	var allocations []db.Allocation
	if err := s.allocationRepo.FindWhere(&allocations, "resource_id IN ?", ids); err != nil {
		return nil, fmt.Errorf("failed to count allocations: %w", err)
	}
	for _, allocation := range allocations {
		counts[allocation.ResourceID]++
	}
	return counts, nil
}

func (s *ResourceService) wrapLookupErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fault.NotFound(entity)
	}
	return fmt.Errorf("failed to look up %s: %w", entity, err)
}
