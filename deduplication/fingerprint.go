package deduplication

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cronos/types"
)

const (
	DefaultFingerprintKey = "cronos:fingerprints"
	DefaultFingerprintTTL = 7 * 24 * time.Hour
)

// FingerprintIndex maps exact-duplicate fingerprints (normalised URL + title)
// to the article that published them. The whole key expires ttl after the
// most recent insertion.
type FingerprintIndex struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func NewFingerprintIndex(client redis.Cmdable, key string, ttl time.Duration) *FingerprintIndex {
	if key == "" {
		key = DefaultFingerprintKey
	}
	if ttl <= 0 {
		ttl = DefaultFingerprintTTL
	}
	return &FingerprintIndex{client: client, key: key, ttl: ttl}
}

// Lookup returns the owning article id, or "" when the fingerprint is unknown.
func (f *FingerprintIndex) Lookup(ctx context.Context, fingerprint string) (string, error) {
	id, err := f.client.HGet(ctx, f.key, fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return id, err
}

// Add records fingerprint as owned by articleID and slides the TTL.
func (f *FingerprintIndex) Add(ctx context.Context, fingerprint, articleID string) error {
	pipe := f.client.TxPipeline()
	pipe.HSet(ctx, f.key, fingerprint, articleID)
	pipe.Expire(ctx, f.key, f.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// NormalizeAndHash returns sha256(normalizedURL + "|" + normalizedTitle).
// URL: lowercase scheme and host, drop fragment, tracking params and trailing
// slash. Title: lowercase with collapsed whitespace.
func NormalizeAndHash(article *types.Article) (string, error) {
	if article == nil {
		return "", fmt.Errorf("nil article")
	}
	normURL := normalizeURL(article.SourceURL)
	normTitle := normalizeTitle(article.Title)
	if normURL == "" && normTitle == "" {
		return "", fmt.Errorf("article %s has neither url nor title", article.ID)
	}

	h := sha256.Sum256([]byte(normURL + "|" + normTitle))
	return hex.EncodeToString(h[:]), nil
}

func normalizeTitle(t string) string {
	return strings.Join(strings.Fields(strings.ToLower(t)), " ")
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "fbclid" || lk == "gclid" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	return strings.TrimRight(u.String(), "/")
}
