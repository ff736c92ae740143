package rssfeeds

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

const robotsTTL = 6 * time.Hour

// RobotsPolicy answers whether the service user agent may fetch a URL,
// caching each host's robots.txt.
type RobotsPolicy struct {
	client    *http.Client
	userAgent string
	now       func() time.Time

	mu    sync.Mutex
	cache map[string]robotsEntry
}

type robotsEntry struct {
	group     *robotstxt.Group
	fetchedAt time.Time
}

func NewRobotsPolicy(client *http.Client, userAgent string) *RobotsPolicy {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsPolicy{
		client:    client,
		userAgent: userAgent,
		now:       time.Now,
		cache:     make(map[string]robotsEntry),
	}
}

// Allowed reports whether rawURL may be fetched. Unreachable or unparsable
// robots files allow everything; 5xx answers disallow everything.
func (p *RobotsPolicy) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	group := p.groupFor(ctx, u)
	if group == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return group.Test(path)
}

func (p *RobotsPolicy) groupFor(ctx context.Context, u *url.URL) *robotstxt.Group {
	origin := u.Scheme + "://" + u.Host

	p.mu.Lock()
	entry, ok := p.cache[origin]
	p.mu.Unlock()
	if ok && p.now().Sub(entry.fetchedAt) < robotsTTL {
		return entry.group
	}

	group := p.fetch(ctx, origin)
	p.mu.Lock()
	p.cache[origin] = robotsEntry{group: group, fetchedAt: p.now()}
	p.mu.Unlock()
	return group
}

func (p *RobotsPolicy) fetch(ctx context.Context, origin string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(p.userAgent)
}
