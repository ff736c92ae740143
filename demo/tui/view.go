package tui

import (
	"strings"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("📰 Cronos Article Import"))
	b.WriteString("\n\n")

	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	if m.Result != nil && (m.State == StateResult || m.State == StateSaving || m.State == StateSaved) {
		b.WriteString(BoxStyle.Render(m.formatResult()))
		b.WriteString("\n\n")
	}
	if m.State == StateFeeds && m.Feeds != nil {
		b.WriteString(BoxStyle.Render(m.formatFeeds()))
		b.WriteString("\n\n")
	}

	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, line := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(InfoStyle.Render(m.footer()))
	return b.String()
}

func (m Model) footer() string {
	switch m.State {
	case StateInput:
		return TextFooterInput
	case StateResult:
		return TextFooterResult
	case StateFeeds:
		return TextFooterFeeds
	case StateImporting, StateChecking, StateSaving:
		return TextFooterBusy
	}
	return TextFooterDone
}
