// Package importer fetches an article page by URL and extracts its title,
// excerpt, lead image, canonical URL and readable body text.
package importer

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cronos/metrics"
	"cronos/types"
)

// Defaults applied to zero-valued Options fields.
const (
	DefaultTimeout           = 12 * time.Second
	DefaultMaxBodyChars      = 2_000_000
	DefaultMaxContentChars   = 30_000
	DefaultMaxParagraphs     = 30
	DefaultMinParagraphChars = 60
	DefaultUserAgent         = "CronosArticleImporter/1.0 (+https://cronos.news/bot; editorial import)"
)

// Options tunes an Importer. Zero values take the defaults above.
type Options struct {
	Timeout           time.Duration
	MaxBodyChars      int
	MaxContentChars   int
	MaxParagraphs     int
	MinParagraphChars int
	UserAgent         string

	// StrictHostCheck additionally resolves hostnames at dial time and
	// refuses private addresses. Off by default: only the literal host is
	// checked.
	StrictHostCheck bool

	// Enrich runs readability over the fetched page to fill byline, site
	// name, language and publish time.
	Enrich bool

	// HTTPClient replaces the client built from the options above.
	HTTPClient *http.Client
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxBodyChars <= 0 {
		o.MaxBodyChars = DefaultMaxBodyChars
	}
	if o.MaxContentChars <= 0 {
		o.MaxContentChars = DefaultMaxContentChars
	}
	if o.MaxParagraphs <= 0 {
		o.MaxParagraphs = DefaultMaxParagraphs
	}
	if o.MinParagraphChars <= 0 {
		o.MinParagraphChars = DefaultMinParagraphChars
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return o
}

// Snapshot is the raw material of one successful import.
type Snapshot struct {
	URL       string
	FetchedAt time.Time
	HTML      string
	Result    *types.ImportResult
}

// SnapshotSink stores import snapshots. Failures are logged by the importer
// and never fail the import.
type SnapshotSink interface {
	PutSnapshot(ctx context.Context, snap Snapshot) error
}

// Importer turns article URLs into ImportResults. It holds no per-call
// state and is safe for concurrent use.
type Importer struct {
	opts      Options
	client    *http.Client
	logger    *zerolog.Logger
	snapshots SnapshotSink

	// isBlockedHost is swapped in tests that talk to loopback servers.
	isBlockedHost func(host string) bool
}

// New creates an Importer. A nil logger disables logging.
func New(opts Options, logger *zerolog.Logger) *Importer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	imp := &Importer{
		opts:          opts.withDefaults(),
		logger:        logger,
		isBlockedHost: IsBlockedHost,
	}
	imp.client = imp.opts.HTTPClient
	if imp.client == nil {
		imp.client = newHTTPClient(imp.opts, imp.checkRedirect)
	}
	return imp
}

// WithSnapshots attaches a sink receiving the raw HTML and result of every
// successful import.
func (imp *Importer) WithSnapshots(sink SnapshotSink) *Importer {
	imp.snapshots = sink
	return imp
}

// Import validates rawURL, fetches the page and extracts its fields.
// Validation errors are returned before any network access.
func (imp *Importer) Import(ctx context.Context, rawURL string) (*types.ImportResult, error) {
	u, err := imp.parseAndValidate(rawURL)
	if err != nil {
		imp.logger.Debug().Str("url", rawURL).Str("kind", string(err.Kind)).Msg("import rejected")
		metrics.Global.RecordImportFailure(string(err.Kind), err)
		return nil, err
	}

	start := time.Now()
	body, ferr := imp.fetch(ctx, u)
	if ferr != nil {
		imp.logger.Warn().
			Str("url", u.String()).
			Str("kind", string(ferr.Kind)).
			Int("status", ferr.StatusCode).
			Err(ferr).
			Msg("article fetch failed")
		metrics.Global.RecordImportFailure(string(ferr.Kind), ferr)
		return nil, ferr
	}

	res := extract(body, u, imp.opts)
	if imp.opts.Enrich {
		imp.enrich(res, body, u)
	}

	if imp.snapshots != nil {
		snap := Snapshot{URL: u.String(), FetchedAt: start.UTC(), HTML: body, Result: res}
		if err := imp.snapshots.PutSnapshot(ctx, snap); err != nil {
			imp.logger.Warn().Err(err).Str("url", u.String()).Msg("snapshot upload failed")
		}
	}

	metrics.Global.RecordImport(time.Since(start))
	imp.logger.Info().
		Str("url", u.String()).
		Str("source_url", res.SourceURL).
		Int("body_chars", len(body)).
		Int("content_chars", len(res.ContentText)).
		Dur("elapsed", time.Since(start)).
		Msg("article imported")
	return res, nil
}

// ValidateURL applies the pre-fetch checks: absolute URL, http or https
// scheme and a host that is not literally local or private.
func ValidateURL(rawURL string) (*url.URL, error) {
	imp := &Importer{isBlockedHost: IsBlockedHost}
	u, err := imp.parseAndValidate(rawURL)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (imp *Importer) parseAndValidate(rawURL string) (*url.URL, *Error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return nil, newError(KindInvalidURL, "url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return nil, newError(KindInvalidURL, "invalid url %q", raw)
	}
	return imp.validateURL(u)
}

func (imp *Importer) validateURL(u *url.URL) (*url.URL, *Error) {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, newError(KindUnsupportedScheme, "unsupported scheme %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, newError(KindInvalidURL, "url %q has no host", u.String())
	}
	if imp.isBlockedHost(host) {
		return nil, newError(KindBlockedHost, "host %q is not allowed", host)
	}
	return u, nil
}
