package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cronos/importer"
	"cronos/types"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotArchiver stores the raw HTML and the extraction result of every
// successful import under <prefix>imports/<id>/.
type SnapshotArchiver struct {
	s3     *S3
	bucket string
	prefix string
}

func NewSnapshotArchiver(s3 *S3, bucket, prefix string) *SnapshotArchiver {
	return &SnapshotArchiver{s3: s3, bucket: bucket, prefix: prefix}
}

// SnapshotKeys returns the object keys used for a snapshot of rawURL.
func (a *SnapshotArchiver) SnapshotKeys(rawURL string) (htmlKey, resultKey string) {
	base := a.prefix + "imports/" + snapshotID(rawURL) + "/"
	return base + "page.html", base + "result.json"
}

// PutSnapshot implements importer.SnapshotSink.
func (a *SnapshotArchiver) PutSnapshot(ctx context.Context, snap importer.Snapshot) error {
	htmlKey, resultKey := a.SnapshotKeys(snap.URL)

	if err := a.s3.Put(ctx, a.bucket, htmlKey, strings.NewReader(snap.HTML), "text/html; charset=utf-8"); err != nil {
		return fmt.Errorf("put %s: %w", htmlKey, err)
	}

	body, err := json.Marshal(struct {
		URL       string              `json:"url"`
		FetchedAt string              `json:"fetchedAt"`
		Result    *types.ImportResult `json:"result"`
	}{snap.URL, snap.FetchedAt.UTC().Format("2006-01-02T15:04:05Z"), snap.Result})
	if err != nil {
		return err
	}
	if err := a.s3.Put(ctx, a.bucket, resultKey, bytes.NewReader(body), "application/json"); err != nil {
		return fmt.Errorf("put %s: %w", resultKey, err)
	}
	return nil
}

// LoadResult reads back the archived extraction result of rawURL.
// ErrSnapshotNotFound means the URL was never archived.
func (a *SnapshotArchiver) LoadResult(ctx context.Context, rawURL string) (*types.ImportResult, error) {
	_, resultKey := a.SnapshotKeys(rawURL)
	ok, err := a.s3.Exists(ctx, a.bucket, resultKey)
	if err != nil {
		return nil, fmt.Errorf("head %s: %w", resultKey, err)
	}
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	rc, err := a.s3.Get(ctx, a.bucket, resultKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Result *types.ImportResult `json:"result"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", resultKey, err)
	}
	return doc.Result, nil
}

func snapshotID(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		u.Fragment = ""
		rawURL = u.String()
	}
	return types.GenerateID(rawURL)
}
