package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"cronos/deduplication"
	"cronos/demo/client"
	"cronos/orchestrator"
	"cronos/types"
)

// State is the screen the demo is on.
type State string

const (
	StateInput     State = "input"
	StateImporting State = "importing"
	StateChecking  State = "checking"
	StateResult    State = "result"
	StateSaving    State = "saving"
	StateSaved     State = "saved"
	StateFeeds     State = "feeds"
	StateError     State = "error"
)

const maxPreviewChars = 400

// Model is the TUI state.
type Model struct {
	Client *client.Client

	State  State
	Input  string
	Result *types.ImportResult
	Dup    *deduplication.DeduplicationResult
	Saved  *types.Article
	Feeds  *orchestrator.StatusResponse
	Logs   []string
	Err    error
}

func NewModel(baseURL string) Model {
	return Model{
		Client: client.NewClient(baseURL),
		State:  StateInput,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// AddLog appends a line, keeping the last eight.
func (m Model) AddLog(line string) Model {
	m.Logs = append(m.Logs, line)
	if len(m.Logs) > 8 {
		m.Logs = m.Logs[len(m.Logs)-8:]
	}
	return m
}

func (m Model) getStateText() string {
	switch m.State {
	case StateInput:
		return HighlightStyle.Render("Import from URL") + "\n\n" +
			"URL: " + m.Input + CursorStyle.Render(" ")
	case StateImporting:
		return StatusStyle.Render("⏳ Importing " + m.Input + " ...")
	case StateChecking:
		return StatusStyle.Render("🔍 Checking for duplicates...")
	case StateSaving:
		return StatusStyle.Render("💾 Saving draft...")
	case StateSaved:
		return HighlightStyle.Render(fmt.Sprintf("✅ Draft saved as %s (/%s)", m.Saved.ID, m.Saved.Slug))
	case StateFeeds:
		return StatusStyle.Render("📰 Feed pipeline")
	case StateError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render("❌ Error: " + errMsg)
	}
	return ""
}

func (m Model) formatResult() string {
	res := m.Result
	var b strings.Builder

	b.WriteString(HighlightStyle.Render(orDash(res.Title)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Source:  %s\n", orDash(res.SourceURL))
	fmt.Fprintf(&b, "Image:   %s\n", orDash(res.ImageURL))
	if res.Byline != "" {
		fmt.Fprintf(&b, "Byline:  %s\n", res.Byline)
	}
	if res.SiteName != "" {
		fmt.Fprintf(&b, "Site:    %s\n", res.SiteName)
	}
	fmt.Fprintf(&b, "Excerpt: %s\n\n", InfoStyle.Render(orDash(res.Excerpt)))

	preview := []rune(res.ContentText)
	if len(preview) > maxPreviewChars {
		preview = append(preview[:maxPreviewChars], []rune("...")...)
	}
	fmt.Fprintf(&b, "Content (%d chars):\n%s\n\n", len([]rune(res.ContentText)), InfoStyle.Render(string(preview)))

	switch {
	case m.Dup == nil:
	case m.Dup.IsDuplicate:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("⚠ Possible duplicate of %s (%.0f%% similar)",
			m.Dup.MatchingID, m.Dup.SimilarityScore*100)))
	default:
		b.WriteString(StatusStyle.Render("✓ No published duplicate found"))
	}
	return b.String()
}

func (m Model) formatFeeds() string {
	f := m.Feeds
	var b strings.Builder
	fmt.Fprintf(&b, "State: %s", f.State)
	if f.Running {
		b.WriteString(" (running)")
	}
	b.WriteString("\n")
	if f.LastRun != nil {
		fmt.Fprintf(&b, "Last run: %d imported | %d duplicates | %d skipped | %d failed\n",
			f.LastRun.Imported, f.LastRun.Duplicates, f.LastRun.Skipped, f.LastRun.Failed)
	}
	if f.Error != "" {
		b.WriteString(ErrorStyle.Render("Error: " + f.Error))
		b.WriteString("\n")
	}
	logs := f.Logs
	if len(logs) > 10 {
		logs = logs[len(logs)-10:]
	}
	for _, l := range logs {
		fmt.Fprintf(&b, "%s %s\n", l.Timestamp.Format("15:04:05"), l.Message)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
