package deduplication

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"cronos/types"
)

func TestNormalizeTitleAndURLAndHash(t *testing.T) {
	cases := []struct {
		name          string
		url           string
		title         string
		wantNormURL   string
		wantNormTitle string
	}{
		{"simple", "https://example.com/path", "Hello World", "https://example.com/path", "hello world"},
		{"utm and fragment", "https://example.com/path?utm_source=feed#section", "  Hello   World  ", "https://example.com/path", "hello world"},
		{"uppercase host", "HTTP://Example.COM/", "TiTle", "http://example.com", "title"},
		{"tracking params", "https://example.com/?fbclid=XYZ&gclid=ABC&utm_medium=1", "T", "https://example.com", "t"},
		{"keeps real params", "https://example.com/a?id=7&utm_campaign=x", "T", "https://example.com/a?id=7", "t"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if nu := normalizeURL(c.url); nu != c.wantNormURL {
				t.Fatalf("normalizeURL(%q) = %q; want %q", c.url, nu, c.wantNormURL)
			}
			if nt := normalizeTitle(c.title); nt != c.wantNormTitle {
				t.Fatalf("normalizeTitle(%q) = %q; want %q", c.title, nt, c.wantNormTitle)
			}
			h, err := NormalizeAndHash(&types.Article{SourceURL: c.url, Title: c.title})
			if err != nil {
				t.Fatalf("NormalizeAndHash error: %v", err)
			}
			if len(h) != 64 {
				t.Fatalf("NormalizeAndHash returned %q", h)
			}
		})
	}
}

func TestNormalizeAndHashEquivalence(t *testing.T) {
	a, _ := NormalizeAndHash(&types.Article{SourceURL: "https://Example.com/x/?utm_source=tw", Title: "Gol  de Messi"})
	b, _ := NormalizeAndHash(&types.Article{SourceURL: "https://example.com/x#top", Title: "gol de messi"})
	if a != b {
		t.Fatalf("expected equal fingerprints, got %s and %s", a, b)
	}
	if _, err := NormalizeAndHash(&types.Article{ID: "empty"}); err == nil {
		t.Fatalf("expected error for article without url and title")
	}
	if _, err := NormalizeAndHash(nil); err == nil {
		t.Fatalf("expected error for nil article")
	}
}

func TestFingerprintIndex(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	idx := NewFingerprintIndex(client, "", time.Hour)

	id, err := idx.Lookup(ctx, "abc")
	if err != nil || id != "" {
		t.Fatalf("Lookup on empty index = %q, %v", id, err)
	}

	if err := idx.Add(ctx, "abc", "article-1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	id, err = idx.Lookup(ctx, "abc")
	if err != nil || id != "article-1" {
		t.Fatalf("Lookup = %q, %v", id, err)
	}
	if ttl := mr.TTL(DefaultFingerprintKey); ttl != time.Hour {
		t.Fatalf("ttl = %v; want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	id, err = idx.Lookup(ctx, "abc")
	if err != nil || id != "" {
		t.Fatalf("expected fingerprint to expire, got %q, %v", id, err)
	}
}
