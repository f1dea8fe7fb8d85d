package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	xredis "github.com/garrettladley/cheevo/internal/redis"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps one hash per section and commits staged writes in a MULTI/EXEC pipeline.
type RedisStore struct {
	client *redis.Client

	mu      sync.Mutex
	pending staged
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sectionKey(section string) string {
	return xredis.Key("settings", section)
}

func (s *RedisStore) Get(ctx context.Context, section string, key string) (string, error) {
	s.mu.Lock()
	c, ok := s.pending.get(section, key)
	s.mu.Unlock()
	if ok {
		if c.deleted {
			return "", ErrNotFound
		}
		return c.value, nil
	}

	value, err := s.client.HGet(ctx, sectionKey(section), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s/%s: %w", section, key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(_ context.Context, section string, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.put(change{section: section, key: key, value: value})
	return nil
}

func (s *RedisStore) Delete(_ context.Context, section string, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.put(change{section: section, key: key, deleted: true})
	return nil
}

func (s *RedisStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	changes := s.pending.drain()
	s.mu.Unlock()
	if len(changes) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, c := range changes {
			if c.deleted {
				pipe.HDel(ctx, sectionKey(c.section), c.key)
				continue
			}
			pipe.HSet(ctx, sectionKey(c.section), c.key, c.value)
		}
		return nil
	})
	if err != nil {
		s.mu.Lock()
		s.pending.restore(changes)
		s.mu.Unlock()
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
