package importer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cronos/metrics"
)

// newTestImporter allows loopback test servers; only "blocked.test" is
// treated as a forbidden host.
func newTestImporter(opts Options) *Importer {
	imp := New(opts, nil)
	imp.isBlockedHost = func(host string) bool { return host == "blocked.test" }
	return imp
}

type countingTransport struct {
	calls int32
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	atomic.AddInt32(&c.calls, 1)
	return nil, errors.New("network access not expected")
}

type recordingSink struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recordingSink) PutSnapshot(_ context.Context, snap Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
	return nil
}

func TestImportRejectsBeforeNetwork(t *testing.T) {
	transport := &countingTransport{}
	imp := New(Options{HTTPClient: &http.Client{Transport: transport}}, nil)

	cases := []struct {
		url  string
		want error
	}{
		{"not a url", ErrInvalidURL},
		{"", ErrInvalidURL},
		{"http://", ErrInvalidURL},
		{"ftp://example.com/x", ErrUnsupportedScheme},
		{"javascript:alert(1)", ErrUnsupportedScheme},
		{"http://localhost/admin", ErrBlockedHost},
		{"http://127.0.0.1:8080/", ErrBlockedHost},
		{"https://10.1.2.3/", ErrBlockedHost},
		{"https://192.168.1.1/router", ErrBlockedHost},
		{"http://172.20.0.5/", ErrBlockedHost},
		{"http://169.254.1.1/latest/meta-data", ErrBlockedHost},
		{"http://0.0.0.0/", ErrBlockedHost},
		{"http://intranet.local/", ErrBlockedHost},
	}
	for _, c := range cases {
		t.Run(c.url, func(t *testing.T) {
			res, err := imp.Import(context.Background(), c.url)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, c.want), "got %v", err)
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&transport.calls))
}

func TestImportPublicHostsPassValidation(t *testing.T) {
	transport := &countingTransport{}
	imp := New(Options{HTTPClient: &http.Client{Transport: transport}}, nil)

	for _, raw := range []string{"http://8.8.8.8/", "https://example.com/nota"} {
		_, err := imp.Import(context.Background(), raw)
		require.Error(t, err)
		assert.Equal(t, KindFetchFailed, KindOf(err), "host check should pass for %s", raw)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&transport.calls))
}

func TestImportSuccess(t *testing.T) {
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page(
			`<title>Título HTML</title><meta property="og:title" content="Título OG"><meta name="description" content="Resumen"><meta property="og:image" content="/img/lead.jpg"><link rel="canonical" href="/nota/123">`,
			`<article><p>`+para(1)+`</p><p>Suscríbete a nuestro newsletter para recibir más contenido como este todos los días</p><p>`+para(2)+`</p></article>`,
		)))
	}))
	defer srv.Close()

	sink := &recordingSink{}
	imp := newTestImporter(Options{}).WithSnapshots(sink)

	res, err := imp.Import(context.Background(), srv.URL+"/nota/123?utm_source=x")
	require.NoError(t, err)

	assert.Equal(t, "Título OG", res.Title)
	assert.Equal(t, "Resumen", res.Excerpt)
	assert.Equal(t, srv.URL+"/img/lead.jpg", res.ImageURL)
	assert.Equal(t, srv.URL+"/nota/123", res.SourceURL)
	assert.Equal(t, para(1)+"\n\n"+para(2), res.ContentText)

	assert.Equal(t, "text/html,application/xhtml+xml", gotHeaders.Get("Accept"))
	assert.Equal(t, DefaultUserAgent, gotHeaders.Get("User-Agent"))
	assert.Equal(t, "no-cache", gotHeaders.Get("Cache-Control"))

	require.Len(t, sink.snaps, 1)
	assert.Same(t, res, sink.snaps[0].Result)
	assert.Contains(t, sink.snaps[0].HTML, "og:title")
}

func TestImportUpstreamAndContentTypeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.Error(w, "nope", http.StatusNotFound)
		case "/json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true}`))
		case "/upper":
			w.Header().Set("Content-Type", "TEXT/HTML")
			_, _ = w.Write([]byte(page("<title>ok</title>", "")))
		case "/redirect-blocked":
			http.Redirect(w, r, "http://blocked.test/x", http.StatusFound)
		}
	}))
	defer srv.Close()

	imp := newTestImporter(Options{})

	_, err := imp.Import(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	var ie *Error
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, KindUpstream, ie.Kind)
	assert.Equal(t, http.StatusNotFound, ie.StatusCode)

	_, err = imp.Import(context.Background(), srv.URL+"/json")
	assert.True(t, errors.Is(err, ErrNotHTML), "got %v", err)

	res, err := imp.Import(context.Background(), srv.URL+"/upper")
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Title)

	_, err = imp.Import(context.Background(), srv.URL+"/redirect-blocked")
	assert.True(t, errors.Is(err, ErrBlockedHost), "got %v", err)
}

func TestImportTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	imp := newTestImporter(Options{Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := imp.Import(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestImportDefaultTimeout(t *testing.T) {
	imp := New(Options{}, nil)
	assert.Equal(t, 12000*time.Millisecond, imp.opts.Timeout)
	assert.Equal(t, 2_000_000, imp.opts.MaxBodyChars)
	assert.Equal(t, 30_000, imp.opts.MaxContentChars)
}

func TestImportConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	imp := newTestImporter(Options{})
	_, err := imp.Import(context.Background(), addr)
	require.Error(t, err)
	assert.Equal(t, KindFetchFailed, KindOf(err))
	assert.NotEmpty(t, err.Error())
}

func TestImportTruncatesOversizedDocument(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><head><title>Grande</title></head><body><article>")
	for b.Len() < 2_500_000 {
		b.WriteString("<p>" + para(7) + "</p>\n")
	}
	b.WriteString("</article></body></html>")
	doc := b.String()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(doc))
	}))
	defer srv.Close()

	sink := &recordingSink{}
	imp := newTestImporter(Options{}).WithSnapshots(sink)

	res, err := imp.Import(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, sink.snaps, 1)
	assert.Equal(t, DefaultMaxBodyChars, utf8.RuneCountInString(sink.snaps[0].HTML))
	assert.Equal(t, "Grande", res.Title)
	assert.LessOrEqual(t, utf8.RuneCountInString(res.ContentText), DefaultMaxContentChars)
	assert.Len(t, strings.Split(res.ContentText, "\n\n"), DefaultMaxParagraphs)
}

func TestValidateURL(t *testing.T) {
	u, err := ValidateURL("  https://example.com/a  ")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Hostname())

	_, err = ValidateURL("http://192.168.0.10/")
	assert.True(t, errors.Is(err, ErrBlockedHost))
}

func upstreamFailures() int64 {
	failures := metrics.Global.GetStats()["import_failures_by_kind"].(map[string]int64)
	return failures[string(KindUpstream)]
}

func TestImportFetchFailureKeepsKindAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	before := upstreamFailures()
	_, err := newTestImporter(Options{}).Import(context.Background(), srv.URL+"/a")
	require.Error(t, err)

	var ie *Error
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, KindUpstream, ie.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, ie.StatusCode)
	assert.Equal(t, before+1, upstreamFailures())
}
