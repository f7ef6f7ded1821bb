package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Redis is a Cache backed by redis. Each tag is a set holding the keys filed
// under it; invalidation deletes the members and the set.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	sf     singleflight.Group
}

// NewRedis wraps an existing redis client.
func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) valueKey(key string) string {
	return fmt.Sprintf("%s:v:%s", r.prefix, key)
}

func (r *Redis) tagKey(tag string) string {
	return fmt.Sprintf("%s:t:%s", r.prefix, tag)
}

// GetOrLoad implements Cache. A redis failure degrades to calling load.
func (r *Redis) GetOrLoad(ctx context.Context, key string, tags []string, load Loader) ([]byte, error) {
	vk := r.valueKey(key)
	value, err := r.client.Get(ctx, vk).Bytes()
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, redis.Nil) {
		return load(ctx)
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		_, _ = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, vk, value, r.ttl)
			for _, tag := range tags {
				tk := r.tagKey(tag)
				pipe.SAdd(ctx, tk, vk)
				pipe.Expire(ctx, tk, 2*r.ttl)
			}
			return nil
		})
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// InvalidateTag implements Invalidator.
func (r *Redis) InvalidateTag(ctx context.Context, tag string) error {
	tk := r.tagKey(tag)
	keys, err := r.client.SMembers(ctx, tk).Result()
	if err != nil {
		return fmt.Errorf("failed to read tag %s: %w", tag, err)
	}
	if err := r.client.Del(ctx, append(keys, tk)...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate tag %s: %w", tag, err)
	}
	return nil
}
