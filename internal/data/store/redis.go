package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "petcare:collection:"

// RedisBackend keeps each collection in a hash with "data" and "version"
// fields. Saves run under WATCH so a concurrent writer aborts the MULTI.
type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (r *RedisBackend) key(name string) string {
	return redisKeyPrefix + name
}

func (r *RedisBackend) Load(ctx context.Context, name string) ([]byte, int64, error) {
	fields, err := r.client.HGetAll(ctx, r.key(name)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("load collection %s: %w", name, err)
	}
	if len(fields) == 0 {
		return nil, 0, nil
	}

	version, err := strconv.ParseInt(fields["version"], 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: bad version %q", ErrCorrupt, fields["version"])
	}
	return []byte(fields["data"]), version, nil
}

func (r *RedisBackend) Save(ctx context.Context, name string, blob []byte, expectedVersion int64) (int64, error) {
	key := r.key(name)
	next := expectedVersion + 1

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, "version").Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}
		if current != expectedVersion {
			return ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "data", string(blob), "version", next)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return 0, ErrVersionConflict
	}
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return 0, err
		}
		return 0, fmt.Errorf("save collection %s: %w", name, err)
	}
	return next, nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
