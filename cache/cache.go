// Package cache provides query.CacheManager implementations. Values are
// stored JSON encoded, so cached results never share memory with callers.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type entry struct {
	data     []byte
	expireAt time.Time
}

// Local is an in-process cache with an optional TTL.
type Local[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewLocal creates a local cache; ttl <= 0 keeps entries until deleted.
func NewLocal[T any](ttl time.Duration) *Local[T] {
	return &Local[T]{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (l *Local[T]) Get(_ context.Context, key string) (T, bool, error) {
	var v T

	l.mu.RLock()
	e, ok := l.entries[key]
	l.mu.RUnlock()
	if !ok {
		return v, false, nil
	}
	if !e.expireAt.IsZero() && l.now().After(e.expireAt) {
		l.mu.Lock()
		delete(l.entries, key)
		l.mu.Unlock()
		return v, false, nil
	}

	if err := json.Unmarshal(e.data, &v); err != nil {
		return v, false, errors.Wrapf(err, "decode %s", key)
	}
	return v, true, nil
}

func (l *Local[T]) Set(_ context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}

	e := entry{data: data}
	if l.ttl > 0 {
		e.expireAt = l.now().Add(l.ttl)
	}

	l.mu.Lock()
	l.entries[key] = e
	l.mu.Unlock()
	return nil
}

func (l *Local[T]) Delete(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.entries, key)
	l.mu.Unlock()
	return nil
}

// Redis stores values under prefix+key in redis.
type Redis[T any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedis[T any](client redis.UniversalClient, prefix string, ttl time.Duration) *Redis[T] {
	return &Redis[T]{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var v T

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return v, false, errors.Wrapf(err, "redis get %s", key)
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, errors.Wrapf(err, "decode %s", key)
	}
	return v, true, nil
}

func (r *Redis[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return errors.Wrapf(r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(), "redis set %s", key)
}

func (r *Redis[T]) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(r.client.Del(ctx, r.prefix+key).Err(), "redis del %s", key)
}
