package tui

import (
	"time"

	"cronos/deduplication"
	"cronos/orchestrator"
	"cronos/types"
)

type ImportDoneMsg struct {
	Result *types.ImportResult
	Err    error
}

type CheckDoneMsg struct {
	Result *deduplication.DeduplicationResult
	Err    error
}

type SaveDoneMsg struct {
	Article *types.Article
	Err     error
}

type FeedRefreshMsg struct {
	Err error
}

type FeedStatusMsg struct {
	Status *orchestrator.StatusResponse
	Err    error
}

// TickMsg drives feed status polling.
type TickMsg struct {
	Time time.Time
}
