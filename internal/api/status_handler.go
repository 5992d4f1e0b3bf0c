package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// status reports the service health and version.
func (a *API) status(c *gin.Context) {
	if a.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	response, code := a.health.Snapshot()
	c.JSON(code, response)
}
