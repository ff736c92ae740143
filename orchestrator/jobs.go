package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"cronos/shared/kafka"
	"cronos/store"
	"cronos/types"
)

// JobWorker consumes queued import jobs and stores each result as a draft.
type JobWorker struct {
	importer Importer
	store    store.ArticleStore
	tracker  kafka.JobTracker
	logger   zerolog.Logger
	now      func() time.Time
}

func NewJobWorker(imp Importer, s store.ArticleStore, tracker kafka.JobTracker, logger zerolog.Logger) *JobWorker {
	return &JobWorker{
		importer: imp,
		store:    s,
		tracker:  tracker,
		logger:   logger.With().Str("component", "import-worker").Logger(),
		now:      time.Now,
	}
}

// Handler adapts the worker to the Kafka consumer. Jobs that fail to import
// are marked as failed rather than redelivered; only tracker or store
// outages leave the message for retry.
func (w *JobWorker) Handler() *kafka.TypedMessageHandler[types.ImportJob] {
	return &kafka.TypedMessageHandler[types.ImportJob]{
		Validate:   func(job *types.ImportJob) bool { return job.ID != "" && job.URL != "" },
		Process:    w.Process,
		AlwaysMark: true,
	}
}

func (w *JobWorker) Process(ctx context.Context, job *types.ImportJob) error {
	status := types.JobStatus{ID: job.ID, URL: job.URL, State: types.JobRunning, UpdatedAt: w.now().UTC()}
	if err := w.tracker.Put(ctx, status); err != nil {
		return err
	}

	res, err := w.importer.Import(ctx, job.URL)
	if err != nil {
		w.logger.Warn().Err(err).Str("job_id", job.ID).Str("url", job.URL).Msg("queued import failed")
		return w.finish(ctx, status, "", err)
	}

	article := NewDraft(res, w.now())
	article.ImportJobID = job.ID
	err = store.CreateUnique(ctx, w.store, article)
	switch {
	case errors.Is(err, store.ErrConflict):
		// Same source already imported; report the existing article.
		return w.finish(ctx, status, article.ID, nil)
	case err != nil:
		return err
	}

	w.logger.Info().Str("job_id", job.ID).Str("article_id", article.ID).Msg("queued import stored")
	return w.finish(ctx, status, article.ID, nil)
}

func (w *JobWorker) finish(ctx context.Context, status types.JobStatus, articleID string, jobErr error) error {
	status.UpdatedAt = w.now().UTC()
	status.ArticleID = articleID
	if jobErr != nil {
		status.State = types.JobFailed
		status.Error = jobErr.Error()
	} else {
		status.State = types.JobDone
	}
	return w.tracker.Put(ctx, status)
}
