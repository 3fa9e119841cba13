package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jgoulah/kcaltrack/internal/errs"
)

// RedisMedium stores keys in Redis under a common prefix
type RedisMedium struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisMedium connects to Redis and verifies the connection.
// A non-empty url takes precedence over opts.
func NewRedisMedium(ctx context.Context, opts *redis.Options, url, prefix string) (*RedisMedium, error) {
	if url != "" {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	}
	if opts == nil {
		return nil, errors.New("redis options are required")
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}

	return &RedisMedium{client: client, prefix: prefix, timeout: 5 * time.Second}, nil
}

// Close closes the client
func (r *RedisMedium) Close() error {
	return r.client.Close()
}

func (r *RedisMedium) key(k string) string {
	return r.prefix + k
}

// Get returns the value stored under key
func (r *RedisMedium) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key. A maxmemory rejection is reported as errs.ErrQuotaExceeded.
func (r *RedisMedium) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		if isOOM(err) {
			return fmt.Errorf("writing key %q: %v: %w", key, err, errs.ErrQuotaExceeded)
		}
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Remove deletes key
func (r *RedisMedium) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("removing key %q: %w", key, err)
	}
	return nil
}

// UsedBytes sums key and value lengths of every key under the prefix
func (r *RedisMedium) UsedBytes() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var total int64
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		n, err := r.client.StrLen(ctx, k).Result()
		if err != nil {
			return 0, fmt.Errorf("measuring key %q: %w", k, err)
		}
		total += int64(len(strings.TrimPrefix(k, r.prefix))) + n
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scanning keys: %w", err)
	}
	return total, nil
}

// isOOM matches the error Redis returns once maxmemory is reached
func isOOM(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM ")
}
