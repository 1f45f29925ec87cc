package controllers

import (
	"net/http"

	"laundrypro-backend/store"

	"github.com/gin-gonic/gin"
)

// HealthController reports whether the catalog can be read.
type HealthController struct {
	Catalog store.CatalogSource
}

func (hc *HealthController) Health(c *gin.Context) {
	if _, err := hc.Catalog.ListServices(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
