package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const maxRedirects = 10

func newHTTPClient(opts Options, checkRedirect func(*http.Request, []*http.Request) error) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.StrictHostCheck {
		dialer := &net.Dialer{Timeout: opts.Timeout, KeepAlive: 30 * time.Second}
		transport.DialContext = safeDialContext(dialer, net.DefaultResolver)
		// A proxy would connect on our behalf and skip the address check.
		transport.Proxy = nil
	}
	return &http.Client{
		Transport:     transport,
		CheckRedirect: checkRedirect,
	}
}

// checkRedirect re-applies URL validation to every redirect hop.
func (imp *Importer) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return newError(KindFetchFailed, "stopped after %d redirects", maxRedirects)
	}
	if _, err := imp.validateURL(req.URL); err != nil {
		return err
	}
	return nil
}

// fetch performs the bounded GET and returns the body capped at
// MaxBodyChars characters.
func (imp *Importer) fetch(ctx context.Context, u *url.URL) (string, *Error) {
	ctx, cancel := context.WithTimeout(ctx, imp.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", &Error{Kind: KindFetchFailed, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("User-Agent", imp.opts.UserAgent)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := imp.client.Do(req)
	if err != nil {
		return "", imp.classifyFetchError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{
			Kind:       KindUpstream,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("upstream returned HTTP %d", resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return "", newError(KindNotHTML, "content type %q is not HTML", contentType)
	}

	body, err := readLimitedChars(resp.Body, imp.opts.MaxBodyChars)
	if err != nil {
		return "", imp.classifyFetchError(ctx, err)
	}
	return body, nil
}

func (imp *Importer) classifyFetchError(ctx context.Context, err error) *Error {
	var ie *Error
	if errors.As(err, &ie) {
		return ie
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: fmt.Sprintf("request timed out after %s", imp.opts.Timeout), Err: err}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &Error{Kind: KindTimeout, Message: fmt.Sprintf("request timed out after %s", imp.opts.Timeout), Err: err}
	}
	return &Error{Kind: KindFetchFailed, Message: "fetch failed", Err: err}
}

// readLimitedChars reads at most maxChars characters. Anything beyond the
// cap is dropped without error.
func readLimitedChars(r io.Reader, maxChars int) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(maxChars)*utf8.UTFMax))
	if err != nil {
		return "", err
	}
	return truncateChars(string(data), maxChars), nil
}

func truncateChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
