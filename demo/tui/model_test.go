package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"cronos/deduplication"
	"cronos/types"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestImportFlow(t *testing.T) {
	m := NewModel("http://127.0.0.1:1")
	m = typeText(m, "https://a.example/x")
	if m.Input != "https://a.example/x" {
		t.Fatalf("Input = %q", m.Input)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.State != StateImporting || cmd == nil {
		t.Fatalf("expected importing state with a command, got %s", m.State)
	}

	res := &types.ImportResult{SourceURL: "https://a.example/x", Title: "Título", ContentText: strings.Repeat("a", 500)}
	next, cmd = m.Update(ImportDoneMsg{Result: res})
	m = next.(Model)
	if m.State != StateChecking || cmd == nil {
		t.Fatalf("expected checking state, got %s", m.State)
	}

	next, _ = m.Update(CheckDoneMsg{Result: &deduplication.DeduplicationResult{IsDuplicate: true, MatchingID: "p1", SimilarityScore: 0.92}})
	m = next.(Model)
	if m.State != StateResult {
		t.Fatalf("expected result state, got %s", m.State)
	}
	view := m.View()
	if !strings.Contains(view, "Título") || !strings.Contains(view, "p1") || !strings.Contains(view, "92%") {
		t.Fatalf("view missing result details:\n%s", view)
	}
	if !strings.Contains(view, "...") {
		t.Fatalf("long content should be truncated in the preview")
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = next.(Model)
	if m.State != StateSaving || cmd == nil {
		t.Fatalf("expected saving state, got %s", m.State)
	}
	next, _ = m.Update(SaveDoneMsg{Article: &types.Article{ID: "abc", Slug: "titulo"}})
	m = next.(Model)
	if m.State != StateSaved || !strings.Contains(m.View(), "abc") {
		t.Fatalf("expected saved state, got %s", m.State)
	}
}

func TestImportError(t *testing.T) {
	m := NewModel("")
	m.State = StateImporting
	next, _ := m.Update(ImportDoneMsg{Err: errors.New("server returned 400: blocked host")})
	m = next.(Model)
	if m.State != StateError || !strings.Contains(m.View(), "blocked host") {
		t.Fatalf("expected error view, got %s", m.State)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = next.(Model)
	if m.State != StateInput || m.Input != "" {
		t.Fatalf("n should return to input, got %s", m.State)
	}
}

func TestInputEditing(t *testing.T) {
	m := typeText(NewModel(""), "abc")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(Model)
	if m.Input != "ab" {
		t.Fatalf("Input = %q", m.Input)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.State != StateImporting || cmd == nil {
		t.Fatalf("enter should start import")
	}

	empty := NewModel("")
	next, cmd = empty.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next.(Model).State != StateInput || cmd != nil {
		t.Fatalf("empty input must not import")
	}
}
