package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// scanCount is the COUNT hint passed to every SCAN call.
const scanCount = 1000

// RedisBackend is a Backend backed by a single-node, sentinel or cluster
// Redis deployment.
type RedisBackend struct {
	client redis.UniversalClient
	addr   string
}

// NewRedisBackend wraps an existing client. addr is used only to identify
// the backend in logs and health reports.
func NewRedisBackend(client redis.UniversalClient, addr string) *RedisBackend {
	return &RedisBackend{client: client, addr: addr}
}

func (r *RedisBackend) Name() string { return "redis" }

func (r *RedisBackend) Addr() string { return r.addr }

func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns the value stored under key.
func (r *RedisBackend) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		log.WithError(err).Debug("Error trying to get value")
		return "", err
	}
	return value, nil
}

// SetGet issues SET key value GET.
func (r *RedisBackend) SetGet(ctx context.Context, key, value string) (string, bool, error) {
	previous, err := r.client.SetArgs(ctx, key, value, redis.SetArgs{Get: true}).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		log.WithError(err).Debug("Error trying to set value")
		return "", false, err
	}
	return previous, true, nil
}

// Scan walks the whole keyspace. On a cluster every master is scanned and
// fn is never called concurrently.
func (r *RedisBackend) Scan(ctx context.Context, fn func(key string) error) error {
	switch v := r.client.(type) {
	case *redis.ClusterClient:
		var mu sync.Mutex
		return v.ForEachMaster(ctx, func(ctx context.Context, client *redis.Client) error {
			return scanKeys(ctx, client, func(key string) error {
				mu.Lock()
				defer mu.Unlock()
				return fn(key)
			})
		})
	default:
		return scanKeys(ctx, r.client, fn)
	}
}

func scanKeys(ctx context.Context, client redis.Cmdable, fn func(key string) error) error {
	iter := client.Scan(ctx, 0, "*", scanCount).Iterator()
	for iter.Next(ctx) {
		if err := fn(iter.Val()); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Size returns DBSIZE, summed over the masters of a cluster.
func (r *RedisBackend) Size(ctx context.Context) (int64, error) {
	v, ok := r.client.(*redis.ClusterClient)
	if !ok {
		return r.client.DBSize(ctx).Result()
	}

	var total atomic.Int64
	err := v.ForEachMaster(ctx, func(ctx context.Context, client *redis.Client) error {
		n, err := client.DBSize(ctx).Result()
		if err != nil {
			return err
		}
		total.Add(n)
		return nil
	})
	return total.Load(), err
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}

