package types

import (
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  ¡Golazo de Messi en el Clásico!  ", "golazo-de-messi-en-el-clasico"},
		{"Año nuevo, vida nueva", "ano-nuevo-vida-nueva"},
		{"2-1: River vence a Boca", "2-1-river-vence-a-boca"},
		{"!!!", ""},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			if got := Slugify(c.in); got != c.want {
				t.Fatalf("Slugify(%q) = %q; want %q", c.in, got, c.want)
			}
		})
	}
}

func TestArticleText(t *testing.T) {
	a := &Article{Title: "t"}
	if a.Text() != "t" {
		t.Fatalf("expected title fallback, got %q", a.Text())
	}
	a.Excerpt = "e"
	a.Content = "<p>c</p>"
	if a.Text() != "<p>c</p>" {
		t.Fatalf("expected content, got %q", a.Text())
	}
	a.ContentText = "plain"
	if a.Text() != "plain" {
		t.Fatalf("expected content text, got %q", a.Text())
	}
}

func TestNewArticleFromImport(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	res := &ImportResult{
		SourceURL:   "https://example.com/nota",
		Title:       "Título de la nota",
		ContentText: "texto",
		Byline:      "Redacción",
	}
	a := NewArticleFromImport(res, "<p>Texto</p>", now)

	if a.ID != GenerateID(res.SourceURL) || len(a.ID) != 16 {
		t.Fatalf("unexpected id %q", a.ID)
	}
	if a.Slug != "titulo-de-la-nota" {
		t.Fatalf("unexpected slug %q", a.Slug)
	}
	if a.Status != StatusDraft || a.Author != "Redacción" || !a.CreatedAt.Equal(now) {
		t.Fatalf("unexpected article %+v", a)
	}

	untitled := NewArticleFromImport(&ImportResult{SourceURL: "https://example.com/x"}, "", now)
	if untitled.Slug != untitled.ID {
		t.Fatalf("expected id as slug fallback, got %q", untitled.Slug)
	}
}
