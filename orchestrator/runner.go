// Package orchestrator runs the feed pipeline: fetch feed items, import each
// linked article, drop duplicates and store the rest as drafts.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cronos/deduplication"
	"cronos/metrics"
	"cronos/rssfeeds"
	"cronos/store"
	"cronos/types"
)

var ErrRunInProgress = errors.New("feed run already in progress")

const DefaultWorkers = 4

// Importer fetches and extracts one article.
type Importer interface {
	Import(ctx context.Context, rawURL string) (*types.ImportResult, error)
}

// FeedSource lists the items of one feed.
type FeedSource interface {
	FetchFeed(ctx context.Context, feed rssfeeds.FeedConfig) ([]rssfeeds.FeedItem, error)
}

// RobotsChecker decides whether a link may be fetched.
type RobotsChecker interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// DuplicateChecker flags articles that repeat a published one.
type DuplicateChecker interface {
	CheckForDuplicates(ctx context.Context, article *types.Article) (*deduplication.DeduplicationResult, error)
}

// RunnerConfig wires the pipeline collaborators. Robots and Dedup are optional.
type RunnerConfig struct {
	Feeds    []rssfeeds.FeedConfig
	Source   FeedSource
	Robots   RobotsChecker
	Importer Importer
	Dedup    DuplicateChecker
	Store    store.ArticleStore
	State    *Manager
	Workers  int
	Logger   *zerolog.Logger
}

// Runner executes the feed pipeline.
type Runner struct {
	cfg    RunnerConfig
	logger *zerolog.Logger
	now    func() time.Time
}

func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.State == nil {
		cfg.State = NewManager()
	}
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "feed-runner").Logger()
	return &Runner{cfg: cfg, logger: &l, now: time.Now}
}

func (r *Runner) State() *Manager { return r.cfg.State }

type itemOutcome int

const (
	outcomeImported itemOutcome = iota
	outcomeDuplicate
	outcomeSkipped
	outcomeFailed
)

// RunOnce processes every enabled feed once. It returns ErrRunInProgress
// without doing anything when another run holds the state.
func (r *Runner) RunOnce(ctx context.Context) (RunSummary, error) {
	state := r.cfg.State
	if !state.TryBegin() {
		return RunSummary{}, ErrRunInProgress
	}

	summary := RunSummary{StartedAt: r.now()}
	state.AddLog("Feed run started")

	items, err := r.collect(ctx, &summary)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		summary.FinishedAt = r.now()
		state.Finish(summary, err)
		return summary, err
	}

	state.SetState(StateImporting)
	state.AddLog("Importing %d item(s) with %d worker(s)", len(items), r.cfg.Workers)
	r.importAll(ctx, items, &summary)

	summary.FinishedAt = r.now()
	metrics.Global.RecordFeedRun(summary.Imported)
	state.AddLog("Feed run complete: %d imported, %d duplicate(s), %d skipped, %d failed",
		summary.Imported, summary.Duplicates, summary.Skipped, summary.Failed)
	r.logger.Info().
		Int("feeds", summary.Feeds).
		Int("items", summary.Items).
		Int("imported", summary.Imported).
		Int("duplicates", summary.Duplicates).
		Int("skipped", summary.Skipped).
		Int("disallowed", summary.Disallowed).
		Int("failed", summary.Failed).
		Msg("feed run complete")

	state.Finish(summary, nil)
	return summary, nil
}

// collect fetches the enabled feeds and filters their items. A feed that
// fails to load is logged and counted; the run fails only if every feed fails.
func (r *Runner) collect(ctx context.Context, summary *RunSummary) ([]rssfeeds.FeedItem, error) {
	var (
		items    []rssfeeds.FeedItem
		seen     = make(map[string]bool)
		feedErrs []error
	)
	for _, feed := range r.cfg.Feeds {
		if !feed.IsEnabled() {
			continue
		}
		summary.Feeds++

		fetched, err := r.cfg.Source.FetchFeed(ctx, feed)
		if err != nil {
			r.logger.Warn().Err(err).Str("feed", feed.Name).Msg("feed fetch failed")
			r.cfg.State.AddLog("Feed %s failed: %v", feed.Name, err)
			feedErrs = append(feedErrs, err)
			continue
		}
		r.cfg.State.AddLog("Fetched %d item(s) from %s", len(fetched), feed.Name)

		for _, item := range fetched {
			summary.Items++
			if seen[item.ID] {
				summary.Skipped++
				continue
			}
			seen[item.ID] = true

			if r.cfg.Robots != nil && !r.cfg.Robots.Allowed(ctx, item.Link) {
				summary.Disallowed++
				continue
			}
			if _, err := r.cfg.Store.Get(ctx, item.ID); err == nil {
				summary.Skipped++
				continue
			}
			items = append(items, item)
		}
	}

	if summary.Feeds > 0 && len(feedErrs) == summary.Feeds {
		return nil, fmt.Errorf("all %d feed(s) failed: %w", summary.Feeds, errors.Join(feedErrs...))
	}
	return items, nil
}

func (r *Runner) importAll(ctx context.Context, items []rssfeeds.FeedItem, summary *RunSummary) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		jobs = make(chan rssfeeds.FeedItem)
	)

	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for item := range jobs {
				outcome := r.processItem(ctx, workerID, item)
				mu.Lock()
				switch outcome {
				case outcomeImported:
					summary.Imported++
				case outcomeDuplicate:
					summary.Duplicates++
				case outcomeSkipped:
					summary.Skipped++
				default:
					summary.Failed++
				}
				mu.Unlock()
			}
		}(i)
	}

	for _, item := range items {
		select {
		case jobs <- item:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
}

func (r *Runner) processItem(ctx context.Context, workerID int, item rssfeeds.FeedItem) itemOutcome {
	log := r.logger.With().Int("worker", workerID).Str("feed", item.Feed).Str("url", item.Link).Logger()

	res, err := r.cfg.Importer.Import(ctx, item.Link)
	if err != nil {
		log.Warn().Err(err).Msg("import failed")
		return outcomeFailed
	}

	article := NewDraft(res, r.now())
	if article.Title == "" {
		article.Title = item.Title
	}
	if article.Excerpt == "" {
		article.Excerpt = item.Summary
	}
	if article.ImageURL == "" {
		article.ImageURL = item.ImageURL
	}
	if article.Author == "" {
		article.Author = item.Author
	}

	if r.cfg.Dedup != nil {
		dup, err := r.cfg.Dedup.CheckForDuplicates(ctx, article)
		if err != nil {
			log.Warn().Err(err).Msg("duplicate check failed")
			return outcomeFailed
		}
		if dup.IsDuplicate {
			metrics.Global.IncrementDuplicatesFlagged()
			log.Info().Str("matching_id", dup.MatchingID).Float64("similarity", dup.SimilarityScore).Msg("duplicate skipped")
			return outcomeDuplicate
		}
	}

	if err := store.CreateUnique(ctx, r.cfg.Store, article); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return outcomeSkipped
		}
		log.Error().Err(err).Msg("store draft failed")
		return outcomeFailed
	}
	log.Debug().Str("article_id", article.ID).Msg("draft stored")
	return outcomeImported
}
