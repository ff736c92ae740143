package rssfeeds

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"cronos/types"
)

// FeedItem is one entry of a fetched feed.
type FeedItem struct {
	ID          string     `json:"id"`
	Feed        string     `json:"feed"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Summary     string     `json:"summary,omitempty"`
	Author      string     `json:"author,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Fetcher downloads and parses RSS/Atom feeds.
type Fetcher struct {
	parser *gofeed.Parser
}

func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	p := gofeed.NewParser()
	if client != nil {
		p.Client = client
	}
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &Fetcher{parser: p}
}

// FetchFeed returns at most feed.MaxItems items that carry a link.
func (f *Fetcher) FetchFeed(ctx context.Context, feed FeedConfig) ([]FeedItem, error) {
	parsed, err := f.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", feed.Name, err)
	}

	maxItems := feed.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	items := make([]FeedItem, 0, min(len(parsed.Items), maxItems))
	for _, item := range parsed.Items {
		if len(items) == maxItems {
			break
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}

		fi := FeedItem{
			ID:      types.GenerateID(link),
			Feed:    feed.Name,
			Title:   strings.TrimSpace(item.Title),
			Link:    link,
			Summary: item.Description,
		}
		if fi.Summary == "" {
			fi.Summary = item.Content
		}
		if item.Author != nil {
			fi.Author = item.Author.Name
		}
		if item.Image != nil {
			fi.ImageURL = item.Image.URL
		}
		if item.PublishedParsed != nil {
			fi.PublishedAt = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			fi.PublishedAt = item.UpdatedParsed
		}
		items = append(items, fi)
	}
	return items, nil
}
