package storage

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one hash per browser.
type RedisStore struct {
	redis  *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client, prefix: "hcm:records:v1"}
}

func (s *RedisStore) hashKey(browserID string) string {
	return fmt.Sprintf("%s:{%s}", s.prefix, browserID)
}

func (s *RedisStore) Get(ctx context.Context, browserID, key string) ([]byte, error) {
	if err := checkBrowserID(browserID); err != nil {
		return nil, err
	}
	result, err := s.redis.HGet(ctx, s.hashKey(browserID), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "redis hget")
	}
	return result, nil
}

func (s *RedisStore) Set(ctx context.Context, browserID, key string, value []byte) error {
	if err := checkBrowserID(browserID); err != nil {
		return err
	}
	if err := s.redis.HSet(ctx, s.hashKey(browserID), key, value).Err(); err != nil {
		return errors.Wrap(err, "redis hset")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, browserID, key string) error {
	if err := checkBrowserID(browserID); err != nil {
		return err
	}
	if err := s.redis.HDel(ctx, s.hashKey(browserID), key).Err(); err != nil {
		return errors.Wrap(err, "redis hdel")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.redis.Close()
}
