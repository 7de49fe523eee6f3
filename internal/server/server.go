// Package server wires configuration, persistence, the LLM provider and the
// HTTP routes into a runnable API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"sparrow-backend/internal/config"
	"sparrow-backend/internal/events"
	"sparrow-backend/internal/handlers"
	"sparrow-backend/internal/middleware"
	"sparrow-backend/internal/services"
)

// New builds the HTTP handler: gin routes behind the CORS policy from cfg.
func New(cfg *config.Config, svc *services.WorkspaceService, bus *events.Bus) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept", "If-None-Match"},
		ExposedHeaders:   []string{"ETag", "Content-Disposition"},
		AllowCredentials: false,
	})

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler(cfg.StoreDriver))

	sessionsHandler := handlers.NewSessionsHandler(svc)
	eventsHandler := handlers.NewEventsHandler(bus, c.OriginAllowed)
	projectsHandler := handlers.NewProjectsHandler(svc)
	filesHandler := handlers.NewFilesHandler(svc)
	previewHandler := handlers.NewPreviewHandler(svc)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Chat sessions
	api.POST("/sessions", sessionsHandler.CreateSession)
	api.GET("/sessions", sessionsHandler.ListSessions)
	api.GET("/sessions/:session_id", sessionsHandler.GetSession)
	api.POST("/sessions/:session_id/messages", sessionsHandler.SendMessage)
	api.GET("/sessions/:session_id/events", eventsHandler.Stream)

	// Projects
	api.POST("/projects", projectsHandler.CreateProject)
	api.GET("/projects", projectsHandler.ListProjects)
	api.GET("/projects/:project_key", projectsHandler.GetProject)
	api.PUT("/projects/:project_key", projectsHandler.ImportProject)
	api.DELETE("/projects/:project_key", projectsHandler.DeleteProject)
	api.POST("/projects/:project_key/duplicate", projectsHandler.DuplicateProject)
	api.GET("/projects/:project_key/export", projectsHandler.ExportProject)
	api.GET("/projects/:project_key/archive", projectsHandler.ArchiveProject)

	// Files
	api.PUT("/projects/:project_key/files", filesHandler.UpsertFile)
	api.PATCH("/projects/:project_key/files/:file_id", filesHandler.RenameFile)
	api.DELETE("/projects/:project_key/files/:file_id", filesHandler.DeleteFile)

	// Preview and deployment
	api.GET("/projects/:project_key/preview", previewHandler.Preview)
	api.POST("/projects/:project_key/deploy", previewHandler.Deploy)

	return c.Handler(router)
}
