package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/preview"
	"sparrow-backend/internal/services"
)

type PreviewHandler struct {
	svc *services.WorkspaceService
}

func NewPreviewHandler(svc *services.WorkspaceService) *PreviewHandler {
	return &PreviewHandler{svc: svc}
}

// Preview godoc
// @Summary     Render the project preview
// @Description Returns the assembled single-page preview with styles and scripts inlined. It is served under a sandbox CSP so scripts run without same-origin access. deploy=1 renders the published variant.
// @Tags        preview
// @Produce     html
// @Security    Bearer
// @Param       project_key path string true "Project key"
// @Param       deploy query bool false "Render the deploy-time variant"
// @Success     200 {string} string "HTML document"
// @Success     304
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_key}/preview [get]
func (h *PreviewHandler) Preview(c *gin.Context) {
	forDeploy, _ := strconv.ParseBool(c.Query("deploy"))
	doc, err := h.svc.Preview(c.Request.Context(), c.Param("project_key"), forDeploy)
	if err != nil {
		respondError(c, err, "render preview")
		return
	}

	etag := preview.ETag(doc)
	c.Header("Content-Security-Policy", preview.SandboxPolicy)
	c.Header("Cache-Control", "no-cache")
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
}

// Deploy godoc
// @Summary     Deploy a project
// @Description Publishes the project as a static site through the configured deploy target and returns its URL. It may take a minute or two for the site to become reachable.
// @Tags        preview
// @Produce     json
// @Security    Bearer
// @Param       project_key path string true "Project key"
// @Success     200 {object} models.DeployResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /projects/{project_key}/deploy [post]
func (h *PreviewHandler) Deploy(c *gin.Context) {
	res, err := h.svc.Deploy(c.Request.Context(), c.Param("project_key"))
	if err != nil {
		respondError(c, err, "deploy project")
		return
	}
	c.JSON(http.StatusOK, models.DeployResponse{URL: res.URL, SiteID: res.SiteID})
}
