package main

import (
	"github.com/JorgeSaicoski/microservice-commons/config"
	"github.com/JorgeSaicoski/microservice-commons/database"
	"github.com/JorgeSaicoski/microservice-commons/server"
	"github.com/JorgeSaicoski/resource-planner/internal/api/allocations"
	"github.com/JorgeSaicoski/resource-planner/internal/api/availability"
	"github.com/JorgeSaicoski/resource-planner/internal/api/projects"
	"github.com/JorgeSaicoski/resource-planner/internal/api/resources"
	"github.com/JorgeSaicoski/resource-planner/internal/api/worktypes"
	"github.com/JorgeSaicoski/resource-planner/internal/db"
	allocationsService "github.com/JorgeSaicoski/resource-planner/internal/services/allocations"
	availabilityService "github.com/JorgeSaicoski/resource-planner/internal/services/availability"
	projectsService "github.com/JorgeSaicoski/resource-planner/internal/services/projects"
	resourcesService "github.com/JorgeSaicoski/resource-planner/internal/services/resources"
	worktypesService "github.com/JorgeSaicoski/resource-planner/internal/services/worktypes"
	"github.com/gin-gonic/gin"
)

func main() {
	server := server.NewServer(server.ServerOptions{
		ServiceName:    "resource-planner",
		ServiceVersion: "1.0.0",
		SetupRoutes:    setupRoutes,
	})
	server.Start()
}

func setupRoutes(router *gin.Engine, cfg *config.Config) {
	// Connect to database using microservice-commons
	dbConnection, err := database.ConnectWithConfig(cfg.DatabaseConfig)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}

	// Auto-migrate models
	if err := database.QuickMigrate(dbConnection,
		&db.Resource{},
		&db.Role{},
		&db.ResourceRole{},
		&db.Skill{},
		&db.ResourceSkill{},
		&db.Project{},
		&db.WorkType{},
		&db.Allocation{},
	); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// Initialize services
	allocationService := allocationsService.NewAllocationService(dbConnection)
	availService := availabilityService.NewAvailabilityService(dbConnection)
	resourceService := resourcesService.NewResourceService(dbConnection)
	projectService := projectsService.NewProjectService(dbConnection)
	workTypeService := worktypesService.NewWorkTypeService(dbConnection)

	// Seed the role catalog so new installs can assign roles immediately
	if err := resourceService.EnsureDefaultRoles(); err != nil {
		panic("Failed to seed default roles: " + err.Error())
	}

	// Setup routes
	api := router.Group("/api")
	allocations.RegisterRoutes(api, allocationService, projectService)
	availability.RegisterRoutes(api, availService)
	resources.RegisterRoutes(api, resourceService)
	projects.RegisterRoutes(api, projectService)
	worktypes.RegisterRoutes(api, workTypeService)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "resource-planner",
			"version": "1.0.0",
		})
	})
}
