package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/fitlife-api/pkg/response"
)

// Health GET /api/health answers without touching any store.
func Health(c *gin.Context) {
	response.Message(c, http.StatusOK, "FitLife API is running!")
}
