package orchestrator

import (
	"fmt"
	"sync"
	"time"
)

// State is the position of the feed pipeline.
type State string

const (
	StateIdle      State = "idle"
	StateFetching  State = "fetching"
	StateImporting State = "importing"
	StateComplete  State = "complete"
	StateError     State = "error"
)

// LogEntry is a single log line with timestamp.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// RunSummary counts what one pipeline run did.
type RunSummary struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
	Feeds      int       `json:"feeds"`
	Items      int       `json:"items"`
	Imported   int       `json:"imported"`
	Duplicates int       `json:"duplicates"`
	Skipped    int       `json:"skipped"`
	Disallowed int       `json:"disallowed"`
	Failed     int       `json:"failed"`
}

// StatusResponse is the JSON body of GET /api/feeds/status.
type StatusResponse struct {
	State   State       `json:"state"`
	Running bool        `json:"running"`
	LastRun *RunSummary `json:"lastRun,omitempty"`
	Logs    []LogEntry  `json:"logs"`
	Error   string      `json:"error,omitempty"`
}

// Manager holds the pipeline state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	currentState State
	running      bool
	lastRun      *RunSummary
	lastErr      error

	// ring buffer
	logs    []LogEntry
	maxLogs int
}

func NewManager() *Manager {
	return &Manager{
		currentState: StateIdle,
		logs:         make([]LogEntry, 0),
		maxLogs:      50,
	}
}

// TryBegin marks a run as started. It returns false if one is in progress.
func (m *Manager) TryBegin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return false
	}
	m.running = true
	m.lastErr = nil
	m.currentState = StateFetching
	return true
}

// Finish records the run summary and releases the run slot.
func (m *Manager) Finish(summary RunSummary, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.lastRun = &summary
	if err != nil {
		m.lastErr = err
		m.currentState = StateError
		m.appendLog(fmt.Sprintf("Error: %v", err))
		return
	}
	m.currentState = StateComplete
}

func (m *Manager) SetState(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentState = state
}

func (m *Manager) GetState() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState
}

func (m *Manager) AddLog(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendLog(fmt.Sprintf(format, args...))
}

// appendLog must be called with the lock held.
func (m *Manager) appendLog(message string) {
	m.logs = append(m.logs, LogEntry{Timestamp: time.Now(), Message: message})
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}

// GetStatus returns a snapshot of the current state.
func (m *Manager) GetStatus() StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := StatusResponse{
		State:   m.currentState,
		Running: m.running,
		Logs:    append([]LogEntry{}, m.logs...),
	}
	if m.lastRun != nil {
		last := *m.lastRun
		resp.LastRun = &last
	}
	if m.lastErr != nil {
		resp.Error = m.lastErr.Error()
	}
	return resp
}
