package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"cronos/api"
	"cronos/common"
	"cronos/config"
	"cronos/deduplication"
	"cronos/importer"
	"cronos/logging"
	"cronos/orchestrator"
	"cronos/rssfeeds"
	"cronos/shared/kafka"
	"cronos/store"
)

func main() {
	cfg, err := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("service stopped")
	}
	logger.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	articles, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := articles.Close(closeCtx); err != nil {
			logger.Warn().Err(err).Msg("failed to close article store")
		}
	}()
	logger.Info().Str("backend", cfg.Store.Backend).Msg("article store ready")

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = common.NewRedisClient(ctx, common.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer redisClient.Close()
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	imp := importer.New(importer.Options{
		Timeout:         cfg.Import.Timeout,
		MaxBodyChars:    cfg.Import.MaxBodyChars,
		MaxContentChars: cfg.Import.MaxContentChars,
		UserAgent:       cfg.Import.UserAgent,
		StrictHostCheck: cfg.Import.StrictHosts,
		Enrich:          cfg.Import.Enrich,
	}, &logger)
	var archive *common.SnapshotArchiver
	if cfg.S3.Bucket != "" {
		s3c, err := common.NewS3(ctx, common.S3Config{
			Region:       cfg.S3.Region,
			Profile:      cfg.S3.Profile,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return err
		}
		archive = common.NewSnapshotArchiver(s3c, cfg.S3.Bucket, cfg.S3.Prefix)
		imp.WithSnapshots(archive)
		logger.Info().Str("bucket", cfg.S3.Bucket).Msg("import snapshots enabled")
	}

	var fingerprints *deduplication.FingerprintIndex
	var jobs kafka.JobTracker = kafka.NewMemoryJobTracker()
	if redisClient != nil {
		fingerprints = deduplication.NewFingerprintIndex(redisClient, "", cfg.Dedup.FingerprintTTL)
		jobs = kafka.NewRedisJobTracker(redisClient, kafka.DefaultJobTTL)
	}
	dedup, err := deduplication.NewDeduplicator(articles, fingerprints, deduplication.DeduplicatorConfig{
		SimilarityThreshold: cfg.Dedup.Threshold,
		ShingleSize:         cfg.Dedup.ShingleSize,
		MaxCandidates:       cfg.Dedup.MaxCandidates,
	}, &logger)
	if err != nil {
		return err
	}

	deps := api.Deps{
		Importer:    imp,
		Store:       articles,
		Dedup:       dedup,
		Logger:      logger,
		BaseContext: ctx,
	}
	if archive != nil {
		deps.Snapshots = archive
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.ImportTopic,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		defer producer.Close()

		worker := orchestrator.NewJobWorker(imp, articles, jobs, logger)
		consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.ImportTopic,
			GroupID: cfg.Kafka.GroupID,
			Handler: worker.Handler(),
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		defer consumer.Close()
		if err := consumer.Start(ctx); err != nil {
			return err
		}

		deps.Queue = producer
		deps.Jobs = jobs
	}

	runner, err := newFeedRunner(cfg, imp, dedup, articles, &logger)
	if err != nil {
		return err
	}
	if runner != nil {
		deps.Feeds = runner
		if cfg.Feeds.Cron != "" {
			sched := orchestrator.NewScheduler(runner, logger)
			if err := sched.Start(cfg.Feeds.Cron); err != nil {
				return err
			}
			defer sched.Stop()
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.ArticleStore, error) {
	if cfg.Backend == "mongo" {
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	}
	return store.NewMemoryStore(), nil
}

// newFeedRunner returns nil when no feeds file exists.
func newFeedRunner(cfg *config.Config, imp *importer.Importer, dedup *deduplication.Deduplicator, articles store.ArticleStore, logger *zerolog.Logger) (*orchestrator.Runner, error) {
	if _, err := os.Stat(cfg.Feeds.File); errors.Is(err, os.ErrNotExist) {
		logger.Info().Str("file", cfg.Feeds.File).Msg("no feeds file, feed pipeline disabled")
		return nil, nil
	}
	feeds, err := rssfeeds.LoadFeeds(cfg.Feeds.File)
	if err != nil {
		return nil, err
	}

	userAgent := cfg.Import.UserAgent
	if userAgent == "" {
		userAgent = importer.DefaultUserAgent
	}
	client := &http.Client{Timeout: cfg.Import.Timeout}

	logger.Info().Int("feeds", len(feeds)).Str("cron", cfg.Feeds.Cron).Msg("feed pipeline configured")
	return orchestrator.NewRunner(orchestrator.RunnerConfig{
		Feeds:    feeds,
		Source:   rssfeeds.NewFetcher(client, userAgent),
		Robots:   rssfeeds.NewRobotsPolicy(client, userAgent),
		Importer: imp,
		Dedup:    dedup,
		Store:    articles,
		Workers:  cfg.Feeds.Workers,
		Logger:   logger,
	}), nil
}
