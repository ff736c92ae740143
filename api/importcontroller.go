package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cronos/common"
	"cronos/importer"
)

type importRequest struct {
	URL string `json:"url"`
}

func (s *server) registerImportRoutes(g *gin.RouterGroup) {
	g.POST("/articles/import", s.handleImport)
	g.GET("/import-snapshots", s.handleGetSnapshot)
}

// handleImport is the editorial "import from URL" action.
func (s *server) handleImport(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.URL == "" {
		errorJSON(c, http.StatusBadRequest, "url is required")
		return
	}

	res, err := s.Importer.Import(c.Request.Context(), req.URL)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, importErrorStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

// importErrorStatus maps importer error kinds onto HTTP statuses.
func importErrorStatus(err error) int {
	switch importer.KindOf(err) {
	case importer.KindInvalidURL, importer.KindUnsupportedScheme, importer.KindBlockedHost:
		return http.StatusBadRequest
	case importer.KindNotHTML:
		return http.StatusUnsupportedMediaType
	case importer.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleGetSnapshot returns the archived extraction result for ?url=.
func (s *server) handleGetSnapshot(c *gin.Context) {
	if s.Snapshots == nil {
		errorJSON(c, http.StatusServiceUnavailable, "snapshot archive is disabled")
		return
	}
	rawURL := c.Query("url")
	if rawURL == "" {
		errorJSON(c, http.StatusBadRequest, "url is required")
		return
	}

	res, err := s.Snapshots.LoadResult(c.Request.Context(), rawURL)
	switch {
	case errors.Is(err, common.ErrSnapshotNotFound):
		errorJSON(c, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.Logger.Error().Err(err).Str("url", rawURL).Msg("snapshot read failed")
		errorJSON(c, http.StatusInternalServerError, "failed to read snapshot")
		return
	}
	c.JSON(http.StatusOK, res)
}
