package db

import (
	"time"
)

// Resource is a person that can be allocated to work.
// Resources are archived (IsActive=false) instead of deleted so that
// historical allocations keep a valid reference.
type Resource struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	JobTitle  *string   `json:"jobTitle"` // Optional job title
	Password  *string   `json:"-"`        // bcrypt hash, never serialized
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Roles       []ResourceRole  `json:"roles" gorm:"foreignKey:ResourceID"`
	Skills      []ResourceSkill `json:"skills" gorm:"foreignKey:ResourceID"`
	Allocations []Allocation    `json:"allocations" gorm:"foreignKey:ResourceID"`
}

// Role is a named category a resource can hold. IsAdmin grants admin UI
// access, IsPlannable marks the resource as eligible for allocations.
type Role struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Label       string    `json:"label" gorm:"not null"`
	IsAdmin     bool      `json:"isAdmin" gorm:"default:false"`
	IsPlannable bool      `json:"isPlannable" gorm:"default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ResourceRole joins resources to roles.
type ResourceRole struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ResourceID uint `json:"resourceId" gorm:"uniqueIndex:idx_resource_role;not null"`
	RoleID     uint `json:"roleId" gorm:"uniqueIndex:idx_resource_role;not null"`

	// Relations
	Role Role `json:"role" gorm:"foreignKey:RoleID"`
}

// Skill is descriptive metadata, not scheduling-relevant.
type Skill struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ResourceSkill assigns a skill to a resource with optional proficiency
// and expiry.
type ResourceSkill struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	ResourceID  uint       `json:"resourceId" gorm:"uniqueIndex:idx_resource_skill;not null"`
	SkillID     uint       `json:"skillId" gorm:"uniqueIndex:idx_resource_skill;not null"`
	Proficiency *string    `json:"proficiency"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`

	// Relations
	Resource Resource `json:"resource" gorm:"foreignKey:ResourceID"`
	Skill    Skill    `json:"skill" gorm:"foreignKey:SkillID"`
}

// Project is a unit of client work. Projects can be created implicitly when
// an allocation's free-text description does not match an existing name.
type Project struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"uniqueIndex;not null"`
	Customer    *string    `json:"customer"` // Optional customer label
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	IsActive    bool       `json:"isActive" gorm:"default:true"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// WorkType is a category of time use (Project, Holiday, Internal, ...).
// The work type named "Holiday" is tracked separately in availability math.
type WorkType struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	IsActive    bool      `json:"isActive" gorm:"default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Allocation is the core ledger record: days committed by one resource to
// one (work type, optional project) in one week, or a multi-week forecast
// entry described by the forecast field group.
//
// At most one allocation may exist per (resource, project, work type, week)
// tuple. The composite unique index is authoritative for non-null project
// references; the services re-check the tuple explicitly so that null
// projectId rows are covered as well.
type Allocation struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	ResourceID uint       `json:"resourceId" gorm:"uniqueIndex:idx_allocation_tuple;not null"`
	ProjectID  *uint      `json:"projectId" gorm:"uniqueIndex:idx_allocation_tuple"` // nil means non-project time
	WorkTypeID uint       `json:"workTypeId" gorm:"uniqueIndex:idx_allocation_tuple;not null"`
	WeekStart  *time.Time `json:"weekStart" gorm:"uniqueIndex:idx_allocation_tuple"` // Monday-aligned; nil for forecast entries
	Days       float64    `json:"days" gorm:"default:0"`
	Notes      *string    `json:"notes"`
	Status     string     `json:"status" gorm:"default:'confirmed'"` // forecast or confirmed

	// Forecast fields: describe a role/quantity/duration need instead of a
	// concrete resource-week commitment.
	RoleLabel   *string    `json:"role" gorm:"column:role_label"`
	Quantity    *int       `json:"quantity"`
	DaysPerWeek *float64   `json:"daysPerWeek"`
	NumWeeks    *int       `json:"numWeeks"`
	StartDate   *time.Time `json:"startDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Resource Resource `json:"resource" gorm:"foreignKey:ResourceID"`
	Project  *Project `json:"project" gorm:"foreignKey:ProjectID"`
	WorkType WorkType `json:"workType" gorm:"foreignKey:WorkTypeID"`
}

// WeekAvailability is the derived availability figure for one resource in
// one week. Never persisted, always recomputed from the allocation rows.
type WeekAvailability struct {
	ResourceID       uint    `json:"resourceId"`
	ResourceName     string  `json:"resourceName"`
	ResourceRoles    []Role  `json:"resourceRoles"`
	WeekStart        string  `json:"weekStart"` // yyyy-mm-dd
	TotalAllocated   float64 `json:"totalAllocated"`
	HolidayDays      float64 `json:"holidayDays"`
	AvailabilityLeft float64 `json:"availabilityLeft"`
	Overbooked       bool    `json:"overbooked"`
}

// ResourceSummary aggregates a resource across every week it appears in.
// Capacity scales with the count of distinct allocated weeks.
type ResourceSummary struct {
	ResourceID          uint    `json:"resourceId"`
	ResourceName        string  `json:"resourceName"`
	ResourceRoles       []Role  `json:"resourceRoles"`
	TotalAllocated      float64 `json:"totalAllocated"`
	TotalCapacity       float64 `json:"totalCapacity"`
	AvailabilityLeft    float64 `json:"availabilityLeft"`
	Overbooked          bool    `json:"overbooked"`
	DistinctWeeks       int     `json:"distinctWeeks"`
	DefaultAvailability float64 `json:"defaultAvailability"`
}

// FlattenRoles maps the join representation to a plain role list for
// response shaping.
func FlattenRoles(joins []ResourceRole) []Role {
	roles := make([]Role, len(joins))
	for i, join := range joins {
		roles[i] = join.Role
	}
	return roles
}

// Allocation status constants
const (
	AllocationStatusForecast  = "forecast"
	AllocationStatusConfirmed = "confirmed"
)

// DefaultWeeklyCapacity is the fixed five-day work week every availability
// figure is computed against. Not configurable per resource.
const DefaultWeeklyCapacity = 5.0

// HolidayWorkTypeName is matched case-insensitively when splitting holiday
// days out of the allocated totals.
const HolidayWorkTypeName = "Holiday"
