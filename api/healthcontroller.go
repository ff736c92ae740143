package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *server) registerHealthRoutes(g *gin.RouterGroup) {
	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	g.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Metrics.GetStats())
	})
}
