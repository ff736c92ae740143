// Package metrics keeps in-process counters for the import service.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	ImportsSucceeded   int64
	ImportsFailed      int64
	ImportFailuresKind map[string]int64
	JobsQueued         int64
	DuplicatesFlagged  int64
	ArticlesPublished  int64
	FeedRuns           int64
	FeedItemsImported  int64

	LastImportDuration  time.Duration
	TotalImportDuration time.Duration

	LastErrorTime time.Time
	LastError     string
	startedAt     time.Time
}

// Global is the process-wide metrics instance.
var Global = New()

func New() *Metrics {
	return &Metrics{
		ImportFailuresKind: make(map[string]int64),
		startedAt:          time.Now(),
	}
}

func (m *Metrics) RecordImport(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImportsSucceeded++
	m.LastImportDuration = d
	m.TotalImportDuration += d
}

func (m *Metrics) RecordImportFailure(kind string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImportsFailed++
	if kind == "" {
		kind = "unknown"
	}
	m.ImportFailuresKind[kind]++
	if err != nil {
		m.LastError = err.Error()
		m.LastErrorTime = time.Now()
	}
}

func (m *Metrics) IncrementJobsQueued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JobsQueued++
}

func (m *Metrics) IncrementDuplicatesFlagged() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFlagged++
}

func (m *Metrics) IncrementArticlesPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesPublished++
}

func (m *Metrics) RecordFeedRun(imported int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedRuns++
	m.FeedItemsImported += int64(imported)
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var avg time.Duration
	if m.ImportsSucceeded > 0 {
		avg = m.TotalImportDuration / time.Duration(m.ImportsSucceeded)
	}
	failures := make(map[string]int64, len(m.ImportFailuresKind))
	for k, v := range m.ImportFailuresKind {
		failures[k] = v
	}

	stats := map[string]interface{}{
		"imports_succeeded":          m.ImportsSucceeded,
		"imports_failed":             m.ImportsFailed,
		"import_failures_by_kind":    failures,
		"jobs_queued":                m.JobsQueued,
		"duplicates_flagged":         m.DuplicatesFlagged,
		"articles_published":         m.ArticlesPublished,
		"feed_runs":                  m.FeedRuns,
		"feed_items_imported":        m.FeedItemsImported,
		"last_import_duration_ms":    m.LastImportDuration.Milliseconds(),
		"average_import_duration_ms": avg.Milliseconds(),
		"last_error":                 m.LastError,
		"uptime_seconds":             int64(time.Since(m.startedAt).Seconds()),
	}
	if !m.LastErrorTime.IsZero() {
		stats["last_error_time"] = m.LastErrorTime.Format(time.RFC3339)
	}
	return stats
}
