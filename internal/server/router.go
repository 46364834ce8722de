package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/hrdesk/hrdesk-backend/internal/handlers"
	"github.com/hrdesk/hrdesk-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName       string
	AllowOrigins      []string
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	ClassifyHandler   *handlers.ClassifyHandler
	CollectionHandler *handlers.CollectionHandler
	UserHandler       *handlers.UserHandler
	WorkspaceHandler  *handlers.WorkspaceHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// Classification
	classify := protected.Group("/")
	classify.Use(cfg.AuthMiddleware.RequireScope("classify"))
	{
		classify.POST("/classify-issue", cfg.ClassifyHandler.ClassifyIssue)
		classify.POST("/classify-issues", cfg.ClassifyHandler.ClassifyIssueBatch)
		classify.GET("/classifications", cfg.ClassifyHandler.ListClassifications)
		classify.GET("/classifications/:id", cfg.ClassifyHandler.GetClassification)
		classify.POST("/classifications/:id/feedback", cfg.ClassifyHandler.RecordFeedback)
		classify.GET("/inputs/:id", cfg.ClassifyHandler.GetInput)
	}

	// Taxonomy browsing is open to any authenticated user
	protected.GET("/collections", cfg.CollectionHandler.ListCollections)
	protected.GET("/collections/:id", cfg.CollectionHandler.GetCollection)
	protected.GET("/collections/:id/categories", cfg.CollectionHandler.ListCategories)
	protected.GET("/categories/:id", cfg.CollectionHandler.GetCategory)

	// Admin
	admin := protected.Group("/")
	admin.Use(cfg.AuthMiddleware.RequireScope("admin"))
	{
		admin.POST("/collections", cfg.CollectionHandler.CreateCollection)
		admin.PUT("/collections/:id", cfg.CollectionHandler.UpdateCollection)
		admin.DELETE("/collections/:id", cfg.CollectionHandler.DeleteCollection)
		admin.POST("/collections/:id/categories", cfg.CollectionHandler.CreateCategory)
		admin.PUT("/categories/:id", cfg.CollectionHandler.UpdateCategory)
		admin.DELETE("/categories/:id", cfg.CollectionHandler.DeleteCategory)
		admin.GET("/users", cfg.UserHandler.ListUsers)
		admin.GET("/users/:id", cfg.UserHandler.GetUser)
		admin.POST("/users", cfg.UserHandler.CreateUser)
		admin.PUT("/users/:id", cfg.UserHandler.UpdateUser)
		admin.DELETE("/users/:id", cfg.UserHandler.DeleteUser)
		admin.GET("/workspaces", cfg.WorkspaceHandler.ListWorkspaces)
		admin.POST("/workspaces", cfg.WorkspaceHandler.CreateWorkspace)
	}

	return router
}
