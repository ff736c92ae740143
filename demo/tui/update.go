package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case ImportDoneMsg:
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		m.Result = msg.Result
		m.State = StateChecking
		m = m.AddLog(fmt.Sprintf("Imported %q (%d chars)", msg.Result.Title, len([]rune(msg.Result.ContentText))))
		return m, checkDuplicate(m.Client, msg.Result)
	case CheckDoneMsg:
		if msg.Err != nil {
			// The import itself is still usable.
			m = m.AddLog("Duplicate check failed: " + msg.Err.Error())
		}
		m.Dup = msg.Result
		m.State = StateResult
		return m, nil
	case SaveDoneMsg:
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		m.Saved = msg.Article
		m.State = StateSaved
		m = m.AddLog("Saved draft " + msg.Article.ID)
		return m, nil
	case FeedRefreshMsg:
		if msg.Err != nil {
			m = m.AddLog("Refresh: " + msg.Err.Error())
		} else {
			m = m.AddLog("Feed refresh started")
		}
		return m, pollFeedStatus(m.Client)
	case FeedStatusMsg:
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		m.Feeds = msg.Status
		return m, nil
	case TickMsg:
		if m.State != StateFeeds {
			return m, nil
		}
		return m, tea.Batch(pollFeedStatus(m.Client), tickCmd())
	}
	return m, nil
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.State = StateError
	m.Err = err
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.State == StateInput {
		switch msg.Type {
		case tea.KeyEnter:
			rawURL := strings.TrimSpace(m.Input)
			if rawURL == "" {
				return m, nil
			}
			m.Input = rawURL
			m.Result, m.Dup, m.Saved, m.Err = nil, nil, nil, nil
			m.State = StateImporting
			return m, importURL(m.Client, rawURL)
		case tea.KeyBackspace:
			if r := []rune(m.Input); len(r) > 0 {
				m.Input = string(r[:len(r)-1])
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Input += string(msg.Runes)
		case tea.KeyEsc:
			m.Input = ""
		case tea.KeyTab:
			m.State = StateFeeds
			return m, tea.Batch(pollFeedStatus(m.Client), tickCmd())
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n", "esc":
		m.State = StateInput
		m.Input = ""
	case "s":
		if m.State == StateResult && m.Result != nil {
			m.State = StateSaving
			return m, saveDraft(m.Client, m.Result)
		}
	case "r":
		if m.State == StateFeeds {
			return m, refreshFeeds(m.Client)
		}
	}
	return m, nil
}
