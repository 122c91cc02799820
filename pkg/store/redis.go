package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"voterroll/pkg/engine"
)

// RedisStore keeps the snapshot in one Redis hash. Saves run under WATCH so
// a concurrent writer aborts the transaction instead of clobbering it.
type RedisStore struct {
	client *redis.Client
	key    string
}

// OpenRedis connects to url and verifies the connection.
func OpenRedis(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisStore(client, prefix), nil
}

// NewRedisStore wraps an existing client. Keys are namespaced by prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, key: prefix + ":snapshot"}
}

func (s *RedisStore) Load(ctx context.Context) (engine.Snapshot, uint64, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return engine.Snapshot{}, 0, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return decodeHash(fields)
}

func (s *RedisStore) Save(ctx context.Context, snap engine.Snapshot, version uint64) error {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.HGet(ctx, s.key, "version").Uint64()
		if errors.Is(err, redis.Nil) {
			stored = 0
		} else if err != nil {
			return fmt.Errorf("failed to read snapshot version: %w", err)
		}
		if err := checkVersion(stored, version); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.key,
				"version", version,
				"hierarchy", []byte(snap.Hierarchy),
				"pending", []byte(snap.Pending),
				"confirmed", []byte(snap.Confirmed),
			)
			return nil
		})
		return err
	}, s.key)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: concurrent write", ErrVersionConflict)
	}
	return err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeHash(fields map[string]string) (engine.Snapshot, uint64, error) {
	if len(fields) == 0 {
		return engine.Snapshot{}, 0, nil
	}
	version, err := strconv.ParseUint(fields["version"], 10, 64)
	if err != nil {
		return engine.Snapshot{}, 0, fmt.Errorf("invalid snapshot version %q: %w", fields["version"], err)
	}
	snap := engine.Snapshot{}
	if v := fields["hierarchy"]; v != "" {
		snap.Hierarchy = []byte(v)
	}
	if v := fields["pending"]; v != "" {
		snap.Pending = []byte(v)
	}
	if v := fields["confirmed"]; v != "" {
		snap.Confirmed = []byte(v)
	}
	return snap, version, nil
}
