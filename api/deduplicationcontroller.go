package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cronos/types"
)

// checkDuplicateRequest carries the fields compared before publishing.
type checkDuplicateRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	ContentText string `json:"contentText"`
}

func (s *server) registerDeduplicationRoutes(g *gin.RouterGroup) {
	g.POST("/deduplication/check", s.handleCheckDuplicate)
}

func (s *server) handleCheckDuplicate(c *gin.Context) {
	if s.Dedup == nil {
		errorJSON(c, http.StatusServiceUnavailable, "duplicate detection is not configured")
		return
	}
	var req checkDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" && req.URL == "" && req.ContentText == "" {
		errorJSON(c, http.StatusBadRequest, "one of title, url or contentText is required")
		return
	}

	candidate := &types.Article{
		ID:          req.ID,
		Title:       req.Title,
		SourceURL:   req.URL,
		ContentText: req.ContentText,
	}
	result, err := s.Dedup.CheckForDuplicates(c.Request.Context(), candidate)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to check duplicates")
		return
	}
	c.JSON(http.StatusOK, result)
}
