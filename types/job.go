package types

import (
	"time"

	"github.com/google/uuid"
)

// ImportJob is the queue message asking a worker to import one URL.
type ImportJob struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	RequestedAt time.Time `json:"requestedAt"`
}

// NewImportJob creates a job with a fresh UUID.
func NewImportJob(url, source string) ImportJob {
	return ImportJob{
		ID:          uuid.New().String(),
		URL:         url,
		Source:      source,
		RequestedAt: time.Now().UTC(),
	}
}

// JobState is the lifecycle position of an import job.
type JobState string

const (
	JobQueued  JobState = "queued"
	JobRunning JobState = "running"
	JobDone    JobState = "done"
	JobFailed  JobState = "failed"
)

// JobStatus is what the API reports for a queued import.
type JobStatus struct {
	ID        string    `json:"id"`
	URL       string    `json:"url,omitempty"`
	State     JobState  `json:"state"`
	ArticleID string    `json:"articleId,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
