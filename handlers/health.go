package handlers

import (
	"net/http"

	"payflow/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness and the latest dependency snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"service":      "Demo Payment Service",
		"dependencies": utils.GetHealthStatus(),
	})
}
