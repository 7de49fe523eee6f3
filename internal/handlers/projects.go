package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/services"
)

type ProjectsHandler struct {
	svc *services.WorkspaceService
}

func NewProjectsHandler(svc *services.WorkspaceService) *ProjectsHandler {
	return &ProjectsHandler{svc: svc}
}

// CreateProject godoc
// @Summary     Create an empty project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateProjectRequest false "Name and description"
// @Success     201 {object} models.ProjectResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /projects [post]
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	_ = c.ShouldBindJSON(&req)

	key, p, err := h.svc.CreateProject(c.Request.Context(), strings.TrimSpace(req.Name), strings.TrimSpace(req.Description))
	if err != nil {
		respondError(c, err, "create project")
		return
	}
	c.JSON(http.StatusCreated, models.ProjectResponse{Key: key, Project: p})
}

// ListProjects godoc
// @Summary     List projects
// @Description Lists stored projects, most recently modified first.
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ProjectListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	list, err := h.svc.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err, "list projects")
		return
	}
	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: list})
}

// GetProject godoc
// @Summary     Get a project
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_key path string true "Project key"
// @Success     200 {object} models.ProjectResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_key} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	key := c.Param("project_key")
	p, err := h.svc.GetProject(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "get project")
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Key: key, Project: p})
}

// ImportProject godoc
// @Summary     Import a project
// @Description Stores an exported project under the given key. The project gets a new id; files with unsafe names are rejected.
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_key path string true "Project key"
// @Param       request body models.Project true "Exported project"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /projects/{project_key} [put]
func (h *ProjectsHandler) ImportProject(c *gin.Context) {
	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid project",
			Message: "Failed to import project. Please check the file format.",
		})
		return
	}

	key := c.Param("project_key")
	imported, err := h.svc.ImportProject(c.Request.Context(), key, &p)
	if err != nil {
		respondError(c, err, "import project")
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Key: key, Project: imported})
}

// DeleteProject godoc
// @Summary     Delete a project
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_key path string true "Project key"
// @Success     200 {object} map[string]string "message"
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /projects/{project_key} [delete]
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), c.Param("project_key")); err != nil {
		respondError(c, err, "delete project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted successfully"})
}

// DuplicateProject godoc
// @Summary     Duplicate a project
// @Description Copies the project under a new key with " (Copy)" appended to its name.
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_key path string true "Project key"
// @Success     201 {object} models.ProjectResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_key}/duplicate [post]
func (h *ProjectsHandler) DuplicateProject(c *gin.Context) {
	key, p, err := h.svc.DuplicateProject(c.Request.Context(), c.Param("project_key"))
	if err != nil {
		respondError(c, err, "duplicate project")
		return
	}
	c.JSON(http.StatusCreated, models.ProjectResponse{Key: key, Project: p})
}

// ExportProject godoc
// @Summary     Export a project as JSON
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_key path string true "Project key"
// @Success     200 {object} models.Project
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_key}/export [get]
func (h *ProjectsHandler) ExportProject(c *gin.Context) {
	data, name, err := h.svc.ExportProject(c.Request.Context(), c.Param("project_key"))
	if err != nil {
		respondError(c, err, "export project")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// ArchiveProject godoc
// @Summary     Download all project files
// @Description Returns every file of the project in a zip archive.
// @Tags        projects
// @Produce     application/zip
// @Security    Bearer
// @Param       project_key path string true "Project key"
// @Success     200 {file} binary
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_key}/archive [get]
func (h *ProjectsHandler) ArchiveProject(c *gin.Context) {
	data, name, err := h.svc.ArchiveProject(c.Request.Context(), c.Param("project_key"))
	if err != nil {
		respondError(c, err, "archive project")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/zip", data)
}
