package jobstatus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// compile-time check: *RedisStore must satisfy port.JobStatusStore
var _ port.JobStatusStore = (*RedisStore)(nil)

func NewRedisStore(addr, password string, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &RedisStore{client: rdb, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, job *model.Job) error {
	logger.Debugf(ctx, "saving status %q for job #%s...", job.Status, job.ID)

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	if err := s.client.Set(ctx, getJobKey(job.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.Job, error) {
	val, err := s.client.Get(ctx, getJobKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // unknown or expired
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var job model.Job
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		return nil, fmt.Errorf("unmarshal failed: %w", err)
	}
	return &job, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func getJobKey(id string) string {
	return "video-job:" + id
}
