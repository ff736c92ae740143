package deduplication

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"cronos/store"
	"cronos/textnorm"
	"cronos/types"
)

const (
	SimilarityThreshold float64 = 0.8
	MaxCandidates       int     = 500
)

// DeduplicationResult contains the result of a duplicate check.
type DeduplicationResult struct {
	IsDuplicate     bool      `json:"isDuplicate"`
	MatchingID      string    `json:"matchingId,omitempty"`
	SimilarityScore float64   `json:"similarityScore,omitempty"`
	CheckedAt       time.Time `json:"checkedAt"`
}

// DeduplicatorConfig holds configuration for the deduplicator.
type DeduplicatorConfig struct {
	SimilarityThreshold float64 // Default: 0.8
	ShingleSize         int     // Default: 3
	MaxCandidates       int     // Default: 500
}

// Deduplicator compares articles against the published ones in the store.
type Deduplicator struct {
	store        store.ArticleStore
	fingerprints *FingerprintIndex
	threshold    float64
	shingleSize  int
	maxCand      int
	logger       *zerolog.Logger
	now          func() time.Time
}

// NewDeduplicator builds a deduplicator over s. fingerprints may be nil, in
// which case only the text similarity pass runs.
func NewDeduplicator(s store.ArticleStore, fingerprints *FingerprintIndex, config DeduplicatorConfig, logger *zerolog.Logger) (*Deduplicator, error) {
	if s == nil {
		return nil, fmt.Errorf("article store cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	cfg := applyConfigDefaults(config)
	return &Deduplicator{
		store:        s,
		fingerprints: fingerprints,
		threshold:    cfg.SimilarityThreshold,
		shingleSize:  cfg.ShingleSize,
		maxCand:      cfg.MaxCandidates,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// CheckForDuplicates checks article against published articles, excluding itself.
func (d *Deduplicator) CheckForDuplicates(ctx context.Context, article *types.Article) (*DeduplicationResult, error) {
	checkTime := d.now()

	if d.fingerprints != nil {
		if hash, err := NormalizeAndHash(article); err == nil {
			owner, err := d.fingerprints.Lookup(ctx, hash)
			switch {
			case err != nil:
				d.logger.Warn().Err(err).Msg("fingerprint lookup failed")
			case owner != "" && owner != article.ID:
				d.logger.Info().Str("article_id", article.ID).Str("matching_id", owner).Msg("exact duplicate by fingerprint")
				return &DeduplicationResult{
					IsDuplicate:     true,
					MatchingID:      owner,
					SimilarityScore: 1,
					CheckedAt:       checkTime,
				}, nil
			}
		}
	}

	content := article.Text()
	if content == "" {
		d.logger.Warn().Str("article_id", article.ID).Msg("no content to check")
		return &DeduplicationResult{CheckedAt: checkTime}, nil
	}

	candidates, err := d.store.List(ctx, store.ListFilter{Status: types.StatusPublished, Limit: d.maxCand})
	if err != nil {
		return nil, fmt.Errorf("failed to list published articles: %w", err)
	}

	var bestMatch *DeduplicationResult
	for _, c := range candidates {
		if c.ID == article.ID {
			continue
		}
		similarity := textnorm.JaccardSimilarity(content, c.Text(), d.shingleSize)
		if similarity < d.threshold {
			continue
		}
		if bestMatch == nil || similarity > bestMatch.SimilarityScore {
			bestMatch = &DeduplicationResult{
				IsDuplicate:     true,
				MatchingID:      c.ID,
				SimilarityScore: similarity,
				CheckedAt:       checkTime,
			}
		}
	}

	if bestMatch != nil {
		d.logger.Info().
			Str("article_id", article.ID).
			Str("matching_id", bestMatch.MatchingID).
			Float64("similarity", bestMatch.SimilarityScore).
			Msg("found duplicate article")
		return bestMatch, nil
	}

	return &DeduplicationResult{CheckedAt: checkTime}, nil
}

// MarkPublished records the article's fingerprint so later exact copies are
// caught without a similarity scan. A no-op when no index is configured.
func (d *Deduplicator) MarkPublished(ctx context.Context, article *types.Article) error {
	if d.fingerprints == nil {
		return nil
	}
	hash, err := NormalizeAndHash(article)
	if err != nil {
		return err
	}
	if err := d.fingerprints.Add(ctx, hash, article.ID); err != nil {
		return fmt.Errorf("failed to record fingerprint: %w", err)
	}
	return nil
}

func applyConfigDefaults(config DeduplicatorConfig) DeduplicatorConfig {
	if config.SimilarityThreshold <= 0 {
		config.SimilarityThreshold = SimilarityThreshold
	}
	if config.ShingleSize <= 0 {
		config.ShingleSize = textnorm.DefaultShingleSize
	}
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = MaxCandidates
	}
	return config
}
