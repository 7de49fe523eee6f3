package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/services"
)

type FilesHandler struct {
	svc *services.WorkspaceService
}

func NewFilesHandler(svc *services.WorkspaceService) *FilesHandler {
	return &FilesHandler{svc: svc}
}

// UpsertFile godoc
// @Summary     Create or update a file
// @Description Writes content to the named file, creating it when absent. The language defaults to one derived from the extension.
// @Tags        files
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_key path string true "Project key"
// @Param       request body models.UpsertFileRequest true "File"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /projects/{project_key}/files [put]
func (h *FilesHandler) UpsertFile(c *gin.Context) {
	var req models.UpsertFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	key := c.Param("project_key")
	p, err := h.svc.UpsertFile(c.Request.Context(), key, req.Name, req.Content, req.Language)
	if err != nil {
		respondError(c, err, "save file")
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Key: key, Project: p})
}

// RenameFile godoc
// @Summary     Rename a file
// @Description Renames a file; its id follows the new name.
// @Tags        files
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_key path string true "Project key"
// @Param       file_id path string true "File ID"
// @Param       request body models.RenameFileRequest true "New name"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /projects/{project_key}/files/{file_id} [patch]
func (h *FilesHandler) RenameFile(c *gin.Context) {
	var req models.RenameFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	key := c.Param("project_key")
	p, err := h.svc.RenameFile(c.Request.Context(), key, c.Param("file_id"), req.Name)
	if err != nil {
		respondError(c, err, "rename file")
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Key: key, Project: p})
}

// DeleteFile godoc
// @Summary     Delete a file
// @Tags        files
// @Produce     json
// @Security    Bearer
// @Param       project_key path string true "Project key"
// @Param       file_id path string true "File ID"
// @Success     200 {object} models.ProjectResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_key}/files/{file_id} [delete]
func (h *FilesHandler) DeleteFile(c *gin.Context) {
	key := c.Param("project_key")
	p, err := h.svc.DeleteFile(c.Request.Context(), key, c.Param("file_id"))
	if err != nil {
		respondError(c, err, "delete file")
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Key: key, Project: p})
}
