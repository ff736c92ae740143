package rssfeeds

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultMaxItems = 10

// FeedPresets maps short names usable in the feeds file to feed URLs.
var FeedPresets = map[string]string{
	"marca":   "https://e00-marca.uecdn.es/rss/portada.xml",
	"as":      "https://as.com/rss/tags/ultimas_noticias.xml",
	"espn":    "https://www.espn.com/espn/rss/news",
	"bbc":     "https://feeds.bbci.co.uk/sport/rss.xml",
	"mundo":   "https://www.mundodeportivo.com/rss/home.xml",
	"olympic": "https://olympics.com/en/news/rss",
}

// FeedConfig is one entry of the feeds file.
type FeedConfig struct {
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"url"`
	Enabled  *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	MaxItems int    `yaml:"max_items,omitempty" json:"maxItems,omitempty"`
}

// IsEnabled treats a missing enabled flag as true.
func (f FeedConfig) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

type feedsFile struct {
	Feeds []FeedConfig `yaml:"feeds"`
}

// LoadFeeds reads the YAML feeds file at path.
func LoadFeeds(path string) ([]FeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}
	return ParseFeeds(data)
}

// ParseFeeds decodes a feeds document, resolving preset names and applying
// defaults.
func ParseFeeds(data []byte) ([]FeedConfig, error) {
	var doc feedsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse feeds file: %w", err)
	}

	feeds := make([]FeedConfig, 0, len(doc.Feeds))
	seen := make(map[string]bool)
	for i, f := range doc.Feeds {
		f.URL = ResolveFeedURL(strings.TrimSpace(f.URL))
		if f.URL == "" {
			return nil, fmt.Errorf("feed %d (%q) has no url", i, f.Name)
		}
		if f.Name == "" {
			f.Name = f.URL
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate feed name %q", f.Name)
		}
		seen[f.Name] = true
		if f.MaxItems <= 0 {
			f.MaxItems = DefaultMaxItems
		}
		feeds = append(feeds, f)
	}
	return feeds, nil
}

// ResolveFeedURL returns the preset URL for a preset name, otherwise the
// input unchanged.
func ResolveFeedURL(feedInput string) string {
	if url, ok := FeedPresets[strings.ToLower(feedInput)]; ok {
		return url
	}
	return feedInput
}
