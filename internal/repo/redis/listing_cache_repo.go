package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const listingKeyPrefix = "listing:"

// ListingCacheRepo stores serialized listing payloads keyed by the
// filter digest. A zero TTL keeps entries until overwritten.
type ListingCacheRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewListingCacheRepo(client *goredis.Client, ttl time.Duration) *ListingCacheRepo {
	if ttl < 0 {
		ttl = 0
	}
	return &ListingCacheRepo{client: client, ttl: ttl}
}

func (r *ListingCacheRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	if key == "" {
		return nil, false, fmt.Errorf("cache key is required")
	}

	payload, err := r.client.Get(ctx, listingKeyPrefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get listing cache entry: %w", err)
	}

	return payload, true, nil
}

func (r *ListingCacheRepo) Set(ctx context.Context, key string, payload []byte) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if key == "" {
		return fmt.Errorf("cache key is required")
	}

	if err := r.client.Set(ctx, listingKeyPrefix+key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("set listing cache entry: %w", err)
	}

	return nil
}
