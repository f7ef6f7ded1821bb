package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// TagRecipes is the tag every cached recipe read is filed under.
const TagRecipes = "recipes"

// Invalidator drops every cached entry filed under a tag.
// Calling it when nothing is cached is not an error.
type Invalidator interface {
	InvalidateTag(ctx context.Context, tag string) error
}

// Loader produces the value for a cache miss.
type Loader func(ctx context.Context) ([]byte, error)

// Cache is a read-through byte cache with tag based invalidation.
type Cache interface {
	Invalidator
	// GetOrLoad returns the cached value for key or calls load and stores
	// the result under key, filed under every tag in tags.
	GetOrLoad(ctx context.Context, key string, tags []string, load Loader) ([]byte, error)
}

// New builds the cache selected by cfg.Driver.
func New(cfg Config) (Cache, error) {
	ttl := cfg.TTL()
	switch strings.ToLower(cfg.Driver) {
	case "", DriverMemory:
		return NewMemory(ttl), nil
	case DriverNone:
		return Nop{}, nil
	case DriverRedis:
		opts := &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
		if cfg.URL != "" {
			parsed, err := redis.ParseURL(cfg.URL)
			if err != nil {
				return nil, fmt.Errorf("failed to parse redis url: %w", err)
			}
			opts = parsed
		}
		client := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
		}
		return NewRedis(client, cfg.Prefix, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}

// Nop never caches; every read goes to the loader.
type Nop struct{}

func (Nop) GetOrLoad(ctx context.Context, _ string, _ []string, load Loader) ([]byte, error) {
	return load(ctx)
}

func (Nop) InvalidateTag(context.Context, string) error { return nil }
