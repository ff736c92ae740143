package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cronos/textnorm"
)

type stripRequest struct {
	HTML string `json:"html"`
}

type formatRequest struct {
	Content string `json:"content"`
}

type similarityRequest struct {
	A           string `json:"a"`
	B           string `json:"b"`
	ShingleSize int    `json:"shingleSize"`
}

func (s *server) registerTextRoutes(g *gin.RouterGroup) {
	t := g.Group("/text")
	t.POST("/strip", s.handleStrip)
	t.POST("/format", s.handleFormat)
	t.POST("/similarity", s.handleSimilarity)
}

func (s *server) handleStrip(c *gin.Context) {
	var req stripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": textnorm.StripHTML(req.HTML)})
}

func (s *server) handleFormat(c *gin.Context) {
	var req formatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": textnorm.FormatArticleContent(req.Content)})
}

func (s *server) handleSimilarity(c *gin.Context) {
	var req similarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.ShingleSize < 0 {
		errorJSON(c, http.StatusBadRequest, "shingleSize must not be negative")
		return
	}
	c.JSON(http.StatusOK, gin.H{"similarity": textnorm.JaccardSimilarity(req.A, req.B, req.ShingleSize)})
}
