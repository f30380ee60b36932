package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ingenio_ai_server/internal/api"
)

// RegisterRoutes sets up the API endpoints and groups them logically.
func RegisterRoutes(router *gin.Engine, h *api.APIHandler) {

	// --- Stateless parser core ---
	// The frontend (or any transport) can run text through the extractor
	// and merger without holding server-side state.
	router.POST("/parse", h.ParseText)
	router.POST("/merge", h.MergeFiles)

	// --- Generation Sessions ---
	// A session accumulates streamed model text per round and keeps the
	// merged file list across rounds.
	sessionGroup := router.Group("/session")
	{
		sessionGroup.POST("", h.CreateSession)
		sessionGroup.POST("/:id/chunk", h.AppendChunk)
		sessionGroup.GET("/:id/files", h.GetSessionFiles)
		sessionGroup.POST("/:id/complete", h.CompleteRound)
		sessionGroup.DELETE("/:id", h.DeleteSession)
	}

	// --- Project Lifecycle ---
	projectGroup := router.Group("/project")
	{
		projectGroup.POST("/generate", h.GenerateProject) // Generate a new project from a prompt
		projectGroup.POST("/:id/refine", h.RefineProject) // Apply a follow-up instruction to a project
		projectGroup.GET("/:id/files", h.GetProjectFiles) // Get the files for a specific project
	}
	router.GET("/projects", h.ListProjects)

	// --- Simple Health Check ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
