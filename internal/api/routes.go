package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the API endpoints and groups them logically.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {
	siteGroup := router.Group("/site")
	{
		siteGroup.POST("/generate", h.GenerateSite) // Generate a website from a description
		siteGroup.POST("/extract", h.ExtractSite)   // Split an already obtained reply
		siteGroup.POST("/export", h.ExportSite)     // Download a reply's code as a zip
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
