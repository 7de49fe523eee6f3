package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"sparrow-backend/internal/deploy"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/services"
	"sparrow-backend/internal/session"
	"sparrow-backend/internal/store"
	"sparrow-backend/internal/synthesizer"
)

// respondError writes err with the status it maps to. what names the failed
// operation for errors that have no specific mapping.
func respondError(c *gin.Context, err error, what string) {
	status, label := http.StatusInternalServerError, "failed to "+what
	switch {
	case errors.Is(err, store.ErrNotFound):
		status, label = http.StatusNotFound, "not found"
	case errors.Is(err, synthesizer.ErrFileNotFound):
		status, label = http.StatusNotFound, "file not found"
	case errors.Is(err, services.ErrNoHTML):
		status, label = http.StatusNotFound, "no preview available"
	case errors.Is(err, session.ErrEmptyInput):
		status, label = http.StatusBadRequest, "empty message"
	case errors.Is(err, synthesizer.ErrInvalidFilename):
		status, label = http.StatusBadRequest, "invalid filename"
	case errors.Is(err, deploy.ErrNoFiles):
		status, label = http.StatusBadRequest, "no project files to deploy"
	case errors.Is(err, synthesizer.ErrFileExists):
		status, label = http.StatusConflict, "file already exists"
	case errors.Is(err, deploy.ErrUnauthorized):
		status, label = http.StatusBadGateway, "deploy target rejected the access token"
	case errors.Is(err, deploy.ErrDisabled):
		status, label = http.StatusServiceUnavailable, "deployment is disabled"
	default:
		slog.Error(label, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, models.ErrorResponse{Error: label, Message: err.Error()})
}
