// Package api exposes the importer, the text tools and the article workflow
// over HTTP with gin.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cronos/deduplication"
	"cronos/metrics"
	"cronos/orchestrator"
	"cronos/shared/kafka"
	"cronos/store"
	"cronos/types"
)

// Deduplicator is the pre-publish duplicate check.
type Deduplicator interface {
	CheckForDuplicates(ctx context.Context, article *types.Article) (*deduplication.DeduplicationResult, error)
	MarkPublished(ctx context.Context, article *types.Article) error
}

// ImportQueue accepts asynchronous import jobs.
type ImportQueue interface {
	PublishImportJob(ctx context.Context, job types.ImportJob) error
}

// SnapshotReader reads archived import results back.
type SnapshotReader interface {
	LoadResult(ctx context.Context, rawURL string) (*types.ImportResult, error)
}

// FeedRunner runs the feed pipeline on demand.
type FeedRunner interface {
	RunOnce(ctx context.Context) (orchestrator.RunSummary, error)
	State() *orchestrator.Manager
}

// Deps are the collaborators behind the routes. Queue, Jobs, Feeds and
// Snapshots are optional; their routes answer 503 when unset.
type Deps struct {
	Importer  orchestrator.Importer
	Store     store.ArticleStore
	Dedup     Deduplicator
	Queue     ImportQueue
	Jobs      kafka.JobTracker
	Feeds     FeedRunner
	Snapshots SnapshotReader
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger

	// BaseContext bounds background work started by handlers.
	BaseContext context.Context
}

type server struct {
	Deps
	now func() time.Time
}

// NewRouter constructs a gin engine with every route registered.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Global
	}
	if deps.BaseContext == nil {
		deps.BaseContext = context.Background()
	}
	s := &server{Deps: deps, now: time.Now}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(deps.Logger))

	g := r.Group("/api")
	s.registerImportRoutes(g)
	s.registerTextRoutes(g)
	s.registerArticleRoutes(g)
	s.registerDeduplicationRoutes(g)
	s.registerJobRoutes(g)
	s.registerFeedRoutes(g)
	s.registerHealthRoutes(g)
	return r
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := logger.Info()
		switch {
		case status >= 500:
			ev = logger.Error()
		case status >= 400:
			ev = logger.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
