package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"cronos/types"
)

var ErrJobNotFound = errors.New("import job not found")

const DefaultJobTTL = 24 * time.Hour

// JobTracker records the lifecycle of queued import jobs.
type JobTracker interface {
	Put(ctx context.Context, status types.JobStatus) error
	Get(ctx context.Context, id string) (*types.JobStatus, error)
}

// RedisJobTracker keeps one JSON document per job with a TTL so that
// statuses survive restarts and are shared by every worker.
type RedisJobTracker struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisJobTracker(client redis.Cmdable, ttl time.Duration) *RedisJobTracker {
	if ttl <= 0 {
		ttl = DefaultJobTTL
	}
	return &RedisJobTracker{client: client, prefix: "cronos:job:", ttl: ttl}
}

func (t *RedisJobTracker) Put(ctx context.Context, status types.JobStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	if err := t.client.Set(ctx, t.prefix+status.ID, data, t.ttl).Err(); err != nil {
		return fmt.Errorf("store job %s: %w", status.ID, err)
	}
	return nil
}

func (t *RedisJobTracker) Get(ctx context.Context, id string) (*types.JobStatus, error) {
	data, err := t.client.Get(ctx, t.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	var status types.JobStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &status, nil
}

// MemoryJobTracker is used when Redis is not configured.
type MemoryJobTracker struct {
	mu   sync.RWMutex
	jobs map[string]types.JobStatus
}

func NewMemoryJobTracker() *MemoryJobTracker {
	return &MemoryJobTracker{jobs: make(map[string]types.JobStatus)}
}

func (t *MemoryJobTracker) Put(_ context.Context, status types.JobStatus) error {
	t.mu.Lock()
	t.jobs[status.ID] = status
	t.mu.Unlock()
	return nil
}

func (t *MemoryJobTracker) Get(_ context.Context, id string) (*types.JobStatus, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	status, ok := t.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &status, nil
}
