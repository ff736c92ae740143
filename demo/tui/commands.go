package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cronos/demo/client"
	"cronos/types"
)

const requestTimeout = 30 * time.Second

func importURL(c *client.Client, rawURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := c.Import(ctx, rawURL)
		return ImportDoneMsg{Result: res, Err: err}
	}
}

func checkDuplicate(c *client.Client, res *types.ImportResult) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		dup, err := c.CheckDuplicate(ctx, res)
		return CheckDoneMsg{Result: dup, Err: err}
	}
}

func saveDraft(c *client.Client, res *types.ImportResult) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		a, err := c.SaveDraft(ctx, res)
		return SaveDoneMsg{Article: a, Err: err}
	}
}

func refreshFeeds(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return FeedRefreshMsg{Err: c.RefreshFeeds(ctx)}
	}
}

func pollFeedStatus(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		status, err := c.FeedStatus(ctx)
		return FeedStatusMsg{Status: status, Err: err}
	}
}

// tickCmd ticks every 500ms while the feed screen is open.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
