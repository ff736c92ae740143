package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cronos/orchestrator"
)

func (s *server) registerFeedRoutes(g *gin.RouterGroup) {
	f := g.Group("/feeds")
	f.POST("/refresh", s.handleFeedRefresh)
	f.GET("/status", s.handleFeedStatus)
}

// handleFeedRefresh starts one feed run in the background and returns 202.
func (s *server) handleFeedRefresh(c *gin.Context) {
	if s.Feeds == nil {
		errorJSON(c, http.StatusServiceUnavailable, "feed pipeline is not configured")
		return
	}
	if s.Feeds.State().GetStatus().Running {
		errorJSON(c, http.StatusConflict, orchestrator.ErrRunInProgress.Error())
		return
	}

	go func() {
		if _, err := s.Feeds.RunOnce(s.BaseContext); err != nil && !errors.Is(err, orchestrator.ErrRunInProgress) {
			s.Logger.Error().Err(err).Msg("manual feed run failed")
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh started"})
}

func (s *server) handleFeedStatus(c *gin.Context) {
	if s.Feeds == nil {
		errorJSON(c, http.StatusServiceUnavailable, "feed pipeline is not configured")
		return
	}
	c.JSON(http.StatusOK, s.Feeds.State().GetStatus())
}
