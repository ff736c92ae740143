// Package config loads service settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	Port      string
	LogLevel  string
	LogPretty bool

	Import ImportConfig
	Store  StoreConfig
	Redis  RedisConfig
	Dedup  DedupConfig
	Kafka  KafkaConfig
	S3     S3Config
	Feeds  FeedsConfig
}

// ImportConfig configures the article importer.
type ImportConfig struct {
	Timeout         time.Duration
	MaxBodyChars    int
	MaxContentChars int
	UserAgent       string
	StrictHosts     bool
	Enrich          bool
}

// StoreConfig selects the article store backend.
type StoreConfig struct {
	Backend         string // memory | mongo
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// RedisConfig is optional; an empty Addr disables Redis-backed features.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DedupConfig configures the pre-publish duplicate check.
type DedupConfig struct {
	Threshold      float64
	ShingleSize    int
	MaxCandidates  int
	FingerprintTTL time.Duration
}

// KafkaConfig is optional; no brokers disables the async import queue.
type KafkaConfig struct {
	Brokers     []string
	ImportTopic string
	GroupID     string
}

// S3Config is optional; an empty bucket disables snapshot archiving.
type S3Config struct {
	Bucket       string
	Region       string
	Profile      string
	Prefix       string
	UsePathStyle bool
}

// FeedsConfig configures scheduled feed imports.
type FeedsConfig struct {
	File    string
	Cron    string
	Workers int
}

// Load reads .env (if present) and the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := FromEnv()
	return cfg, cfg.Validate()
}

// FromEnv builds a Config from the current environment without validating.
func FromEnv() *Config {
	return &Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),
		Import: ImportConfig{
			Timeout:         time.Duration(getEnvIntOrDefault("IMPORT_TIMEOUT_MS", 12000)) * time.Millisecond,
			MaxBodyChars:    getEnvIntOrDefault("IMPORT_MAX_BODY_CHARS", 2_000_000),
			MaxContentChars: getEnvIntOrDefault("IMPORT_MAX_CONTENT_CHARS", 30_000),
			UserAgent:       os.Getenv("IMPORT_USER_AGENT"),
			StrictHosts:     getEnvBool("IMPORT_STRICT_HOSTS", false),
			Enrich:          getEnvBool("IMPORT_ENRICH", true),
		},
		Store: StoreConfig{
			Backend:         strings.ToLower(getEnvOrDefault("STORE_BACKEND", "memory")),
			MongoURI:        os.Getenv("MONGO_URI"),
			MongoDatabase:   getEnvOrDefault("MONGO_DATABASE", "cronos"),
			MongoCollection: getEnvOrDefault("MONGO_COLLECTION", "articles"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASS"),
			DB:       getEnvIntOrDefault("REDIS_DB", 0),
		},
		Dedup: DedupConfig{
			Threshold:      getEnvFloatOrDefault("DEDUP_THRESHOLD", 0.8),
			ShingleSize:    getEnvIntOrDefault("DEDUP_SHINGLE_SIZE", 3),
			MaxCandidates:  getEnvIntOrDefault("DEDUP_MAX_CANDIDATES", 500),
			FingerprintTTL: time.Duration(getEnvIntOrDefault("DEDUP_TTL_SECONDS", 7*24*3600)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(os.Getenv("KAFKA_BROKERS")),
			ImportTopic: getEnvOrDefault("KAFKA_IMPORT_TOPIC", "article-imports"),
			GroupID:     getEnvOrDefault("KAFKA_GROUP_ID", "cronos-importer"),
		},
		S3: S3Config{
			Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
			Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
			Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
			Prefix:       normalizePrefix(os.Getenv("S3_PREFIX")),
			UsePathStyle: getEnvBool("S3_USE_PATH_STYLE", false),
		},
		Feeds: FeedsConfig{
			File:    getEnvOrDefault("FEEDS_FILE", "feeds.yaml"),
			Cron:    strings.TrimSpace(os.Getenv("FEED_CRON")),
			Workers: getEnvIntOrDefault("FEED_WORKERS", 4),
		},
	}
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.Import.Timeout <= 0 {
		return fmt.Errorf("IMPORT_TIMEOUT_MS must be positive")
	}
	if c.Import.MaxBodyChars <= 0 || c.Import.MaxContentChars <= 0 {
		return fmt.Errorf("import character limits must be positive")
	}
	switch c.Store.Backend {
	case "memory":
	case "mongo":
		if c.Store.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_BACKEND=mongo")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be 'memory' or 'mongo', got %q", c.Store.Backend)
	}
	if c.Dedup.Threshold <= 0 || c.Dedup.Threshold > 1 {
		return fmt.Errorf("DEDUP_THRESHOLD must be in (0, 1], got %v", c.Dedup.Threshold)
	}
	if c.Dedup.ShingleSize <= 0 || c.Dedup.MaxCandidates <= 0 {
		return fmt.Errorf("dedup shingle size and candidate limit must be positive")
	}
	if c.Feeds.Workers <= 0 {
		return fmt.Errorf("FEED_WORKERS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}
