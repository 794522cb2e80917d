package staging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pagesmith/pagesmith/pkg/models"
	"github.com/redis/go-redis/v9"
)

// ErrNotStaged is returned by Take when no dataset is staged for the session.
var ErrNotStaged = errors.New("no dataset staged for session")

// Stager holds uploaded datasets against a session identifier until consumed.
// Implementations must be safe for concurrent use.
type Stager interface {
	Stage(ctx context.Context, sessionID string, ds *models.Dataset) error
	Take(ctx context.Context, sessionID string) (*models.Dataset, error)
	Ping(ctx context.Context) error
}

// RedisStager implements Stager on Redis. Staging is last-write-wins per
// session; Take consumes the staged value atomically via GETDEL, so an
// upload racing a create-template call can observe the old dataset or the
// new one, never a torn state. Values expire after the configured TTL.
type RedisStager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStager creates a RedisStager from a Redis URL.
func NewRedisStager(redisURL string, ttl time.Duration) (*RedisStager, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisStager{client: redis.NewClient(opts), ttl: ttl}, nil
}

func (s *RedisStager) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStager) Close() error {
	return s.client.Close()
}

func (s *RedisStager) Stage(ctx context.Context, sessionID string, ds *models.Dataset) error {
	payload, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := s.client.Set(ctx, DatasetKey(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("stage dataset: %w", err)
	}
	return nil
}

func (s *RedisStager) Take(ctx context.Context, sessionID string) (*models.Dataset, error) {
	payload, err := s.client.GetDel(ctx, DatasetKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotStaged
	}
	if err != nil {
		return nil, fmt.Errorf("take dataset: %w", err)
	}

	var ds models.Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &ds, nil
}
