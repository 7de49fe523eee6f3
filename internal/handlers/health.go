package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"sparrow-backend/internal/models"
)

// HealthHandler godoc
// @Summary     Health check
// @Description Reports that the API is up and which persistence backend it runs on
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func HealthHandler(storeDriver string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", Store: storeDriver})
	}
}
