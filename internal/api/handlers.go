package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ingenio_ai_server/internal/parser"
	"ingenio_ai_server/internal/session"
	"ingenio_ai_server/internal/store"
	"ingenio_ai_server/internal/types"
)

// ProjectGenerator is the slice of the AI generator the handlers need.
type ProjectGenerator interface {
	GenerateProject(ctx context.Context, userPrompt string, onUpdate func(parser.ParseResult)) ([]types.GeneratedFile, error)
	GenerateCodeChanges(ctx context.Context, userQuery string, contextFiles string, onUpdate func(parser.ParseResult)) ([]types.GeneratedFile, error)
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator ProjectGenerator
	sessions  *session.Store
	projects  *store.ProjectStore
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(gen ProjectGenerator, sessions *session.Store, projects *store.ProjectStore) *APIHandler {
	return &APIHandler{
		generator: gen,
		sessions:  sessions,
		projects:  projects,
	}
}

// --- Structs for API Requests/Responses ---

type ParseRequest struct {
	Text string `json:"text"`
}

type MergeRequest struct {
	Previous []types.GeneratedFile `json:"previous"`
	Next     []types.GeneratedFile `json:"next"`
}

type MergeResponse struct {
	Files []types.GeneratedFile `json:"files"`
}

type CreateSessionRequest struct {
	Prompt string `json:"prompt"`
}

type ChunkRequest struct {
	Text string `json:"text" binding:"required"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type GenerateResponse struct {
	ProjectID string                `json:"projectId"`
	Files     []types.GeneratedFile `json:"files"`
}

type RefineRequest struct {
	Query string `json:"query" binding:"required"`
}

// --- Stateless core endpoints ---

// POST /parse
func (h *APIHandler) ParseText(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	result := parser.ParseFilesFromResponse(req.Text)
	c.JSON(http.StatusOK, result)
}

// POST /merge
func (h *APIHandler) MergeFiles(c *gin.Context) {
	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	merged := parser.MergeGeneratedFiles(req.Previous, req.Next)
	c.JSON(http.StatusOK, MergeResponse{Files: merged})
}

// --- Session endpoints (chunk-fed streaming path) ---

// POST /session
func (h *APIHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	sess := h.sessions.Create(req.Prompt)
	c.JSON(http.StatusCreated, sess)
}

// POST /session/:id/chunk
func (h *APIHandler) AppendChunk(c *gin.Context) {
	var req ChunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	snap, err := h.sessions.AppendChunk(c.Param("id"), req.Text)
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GET /session/:id/files
func (h *APIHandler) GetSessionFiles(c *gin.Context) {
	snap, err := h.sessions.Snapshot(c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// POST /session/:id/complete
func (h *APIHandler) CompleteRound(c *gin.Context) {
	files, err := h.sessions.CompleteRound(c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, MergeResponse{Files: files})
}

// DELETE /session/:id
func (h *APIHandler) DeleteSession(c *gin.Context) {
	h.sessions.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) sessionError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// --- Project endpoints (server-side generation path) ---

// POST /project/generate
func (h *APIHandler) GenerateProject(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	projectID := uuid.New().String()
	log.Printf("Generating project %s", projectID)

	files, err := h.generator.GenerateProject(c.Request.Context(), req.Prompt, nil)
	if err != nil {
		log.Printf("Error generating project %s: %v", projectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate project"})
		return
	}

	if err := h.projects.Save(projectID, files); err != nil {
		log.Printf("Error storing project %s: %v", projectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store generated project"})
		return
	}

	c.JSON(http.StatusCreated, GenerateResponse{ProjectID: projectID, Files: files})
}

// POST /project/:id/refine
func (h *APIHandler) RefineProject(c *gin.Context) {
	projectID := c.Param("id")
	var req RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	previous, err := h.projects.Load(projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	changed, err := h.generator.GenerateCodeChanges(c.Request.Context(), req.Query, renderContextFiles(previous), nil)
	if err != nil {
		log.Printf("Error refining project %s: %v", projectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refine project"})
		return
	}

	// The refinement round returns only changed files; untouched files
	// must survive the merge.
	merged := parser.MergeGeneratedFiles(previous, changed)
	if err := h.projects.Save(projectID, merged); err != nil {
		log.Printf("Error storing refined project %s: %v", projectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store refined project"})
		return
	}

	log.Printf("Refined project %s: %d files changed, %d total.", projectID, len(changed), len(merged))
	c.JSON(http.StatusOK, GenerateResponse{ProjectID: projectID, Files: merged})
}

// GET /project/:id/files
func (h *APIHandler) GetProjectFiles(c *gin.Context) {
	files, err := h.projects.Load(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, MergeResponse{Files: files})
}

// GET /projects
func (h *APIHandler) ListProjects(c *gin.Context) {
	ids, err := h.projects.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projects"})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": ids})
}
