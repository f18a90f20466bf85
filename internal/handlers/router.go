package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-management-api/internal/logging"
	"github.com/yukikurage/intern-management-api/internal/middleware"
	"github.com/yukikurage/intern-management-api/internal/services"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Auth     *services.AuthService
	Users    *services.UserService
	Tasks    *services.TaskService
	Projects *services.ProjectService
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(svc Services, logger logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	RegisterRoutes(r, svc)
	return r
}

// RegisterRoutes mounts the API on r.
func RegisterRoutes(r gin.IRouter, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	profileHandler := NewProfileHandler(svc.Users)
	userHandler := NewUserHandler(svc.Users)
	taskHandler := NewTaskHandler(svc.Tasks)
	projectHandler := NewProjectHandler(svc.Projects)

	useRequestFieldNames()

	requireID := middleware.RequireUUIDParam("id")
	requireAdmin := middleware.RequireAdmin()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Intern Management API is running",
		})
	})

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	api := r.Group("")
	api.Use(middleware.RequireAuth(svc.Auth))
	{
		api.GET("/profile", profileHandler.GetProfile)
		api.PUT("/profile", profileHandler.UpdateProfile)
		api.GET("/profile/picture", profileHandler.GetProfilePicture)

		api.GET("/interns", userHandler.ListInterns)
		api.GET("/get_user_names", userHandler.UserNames)
		api.GET("/get_user/:email", userHandler.GetUser)
		api.GET("/get_user/:email/picture", userHandler.GetUserPicture)
		api.POST("/add_user", requireAdmin, userHandler.AddUser)
		api.PUT("/update_user/:email", requireAdmin, userHandler.UpdateUser)

		api.GET("/tasks", taskHandler.ListTasks)
		api.GET("/unclaimed_tasks", taskHandler.ListUnclaimedTasks)
		api.POST("/claim_task/:id", requireID, taskHandler.ClaimTask)
		api.POST("/addTask", requireAdmin, taskHandler.CreateTask)
		api.PUT("/update_task_status", taskHandler.UpdateTaskStatus)
		api.PUT("/updateTaskStatus", taskHandler.UpdateTaskStatus)
		api.GET("/get_task/:id", requireID, taskHandler.GetTask)
		api.PUT("/update_task/:id", requireAdmin, requireID, taskHandler.UpdateTask)
		api.DELETE("/delete_task/:id", requireAdmin, requireID, taskHandler.DeleteTask)

		api.GET("/get_projects", projectHandler.ListProjects)
		api.POST("/add_project", requireAdmin, projectHandler.CreateProject)
		api.PUT("/update_project/:id", requireAdmin, requireID, projectHandler.UpdateProject)
		api.DELETE("/delete_project/:id", requireAdmin, requireID, projectHandler.DeleteProject)
		api.POST("/assign_task_to_project/:id", requireID, projectHandler.AssignTask)
		api.GET("/get_project_tasks/:id", requireID, projectHandler.ListProjectTasks)
	}
}
