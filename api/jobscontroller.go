package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cronos/importer"
	"cronos/shared/kafka"
	"cronos/types"
)

func (s *server) registerJobRoutes(g *gin.RouterGroup) {
	g.POST("/import-jobs", s.handleQueueImport)
	g.GET("/import-jobs/:id", s.handleGetImportJob)
}

// handleQueueImport validates the URL up front and hands the fetch to the
// import workers.
func (s *server) handleQueueImport(c *gin.Context) {
	if s.Queue == nil || s.Jobs == nil {
		errorJSON(c, http.StatusServiceUnavailable, "import queue is not configured")
		return
	}
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		errorJSON(c, http.StatusBadRequest, "url is required")
		return
	}
	u, err := importer.ValidateURL(req.URL)
	if err != nil {
		errorJSON(c, importErrorStatus(err), err.Error())
		return
	}

	ctx := c.Request.Context()
	job := types.NewImportJob(u.String(), "api")
	status := types.JobStatus{ID: job.ID, URL: job.URL, State: types.JobQueued, UpdatedAt: job.RequestedAt}
	if err := s.Jobs.Put(ctx, status); err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to record job")
		return
	}
	if err := s.Queue.PublishImportJob(ctx, job); err != nil {
		_ = c.Error(err)
		status.State = types.JobFailed
		status.Error = "could not enqueue job"
		_ = s.Jobs.Put(ctx, status)
		errorJSON(c, http.StatusInternalServerError, "failed to enqueue import job")
		return
	}

	s.Metrics.IncrementJobsQueued()
	c.JSON(http.StatusAccepted, gin.H{"jobId": job.ID, "status": types.JobQueued})
}

func (s *server) handleGetImportJob(c *gin.Context) {
	if s.Jobs == nil {
		errorJSON(c, http.StatusServiceUnavailable, "import queue is not configured")
		return
	}
	status, err := s.Jobs.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, kafka.ErrJobNotFound) {
		errorJSON(c, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to load job")
		return
	}
	c.JSON(http.StatusOK, status)
}
