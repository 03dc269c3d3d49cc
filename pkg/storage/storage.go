// Package storage keeps small JSON records scoped to one browser, the
// server-side counterpart of the browser's local storage.
package storage

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/iota-uz/hcm-console/pkg/configuration"
)

const (
	ConnectionKey = "oracleConnectionConfig"
	SettingsKey   = "oracleFusionSettings"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidBrowserID = errors.New("invalid browser id")
)

var browserIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type Store interface {
	Get(ctx context.Context, browserID, key string) ([]byte, error)
	Set(ctx context.Context, browserID, key string, value []byte) error
	Delete(ctx context.Context, browserID, key string) error
	Close() error
}

func ValidBrowserID(id string) bool {
	return browserIDPattern.MatchString(id)
}

func checkBrowserID(id string) error {
	if !ValidBrowserID(id) {
		return errors.Wrapf(ErrInvalidBrowserID, "%q", id)
	}
	return nil
}

// Load decodes the record stored under key. A missing record yields ErrNotFound.
func Load[T any](ctx context.Context, s Store, browserID, key string) (T, error) {
	var out T
	raw, err := s.Get(ctx, browserID, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errors.Wrapf(err, "decode record %s", key)
	}
	return out, nil
}

func Save(ctx context.Context, s Store, browserID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode record %s", key)
	}
	return s.Set(ctx, browserID, key, raw)
}

// Open builds the store selected by RECORD_STORE.
func Open(ctx context.Context, conf *configuration.Configuration) (Store, error) {
	switch conf.RecordStore.Driver {
	case "file":
		return NewFileStore(conf.RecordStore.Dir)
	case "redis":
		opts, err := redis.ParseURL(conf.RedisURL)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, errors.Wrap(err, "ping redis")
		}
		return NewRedisStore(client), nil
	default:
		return NewMemoryStore(), nil
	}
}
