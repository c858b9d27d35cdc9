package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

const listingCacheKeyPrefix = "verified_listings:"

type listingCache struct {
	client *redis.Client
}

func NewListingCache(client *redis.Client) repository.ListingCache {
	return &listingCache{client: client}
}

func (c *listingCache) key(search string) string {
	if search == "" {
		return listingCacheKeyPrefix + "all"
	}
	return listingCacheKeyPrefix + "q:" + search
}

func (c *listingCache) Get(ctx context.Context, search string) ([]entity.Property, error) {
	val, err := c.client.Get(ctx, c.key(search)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cached listings: %w", err)
	}

	var properties []entity.Property
	if err := json.Unmarshal(val, &properties); err != nil {
		_ = c.client.Del(ctx, c.key(search)).Err()
		return nil, fmt.Errorf("failed to unmarshal cached listings: %w", err)
	}
	return properties, nil
}

func (c *listingCache) Set(ctx context.Context, search string, properties []entity.Property, ttl time.Duration) error {
	data, err := json.Marshal(properties)
	if err != nil {
		return fmt.Errorf("failed to marshal listings for cache: %w", err)
	}
	if err := c.client.Set(ctx, c.key(search), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache listings: %w", err)
	}
	return nil
}

func (c *listingCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, listingCacheKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan listing cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate listing cache: %w", err)
	}
	return nil
}
