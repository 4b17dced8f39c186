package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	gocache "github.com/patrickmn/go-cache"

	"github.com/doingodswork/ertflix-jellyfin/pkg/catalog"
)

const (
	redisKeyPrefix = "ertflix-jellyfin:"
	redisTimeout   = 2 * time.Second
)

var _ catalog.Cache = (*goCache)(nil)

// goCache is the in-memory result cache, backed by github.com/patrickmn/go-cache.
type goCache struct {
	cache *gocache.Cache
}

// Set implements the catalog.Cache interface.
func (c *goCache) Set(key string, data []byte) error {
	item := catalog.CacheItem{
		Data:    data,
		Created: time.Now(),
	}
	c.cache.Set(key, item, gocache.DefaultExpiration)
	return nil
}

// Get implements the catalog.Cache interface.
func (c *goCache) Get(key string) ([]byte, time.Time, bool, error) {
	itemIface, found := c.cache.Get(key)
	if !found {
		return nil, time.Time{}, found, nil
	}
	item, ok := itemIface.(catalog.CacheItem)
	if !ok {
		return nil, time.Time{}, found, fmt.Errorf("Couldn't cast cached value to catalog.CacheItem: type was: %T", itemIface)
	}
	return item.Data, item.Created, found, nil
}

var _ catalog.Cache = (*redisCache)(nil)

// redisCache is the result cache shared between multiple instances of this service.
type redisCache struct {
	rdb *redis.Client
	// Redis evicts entries after this duration
	expiration time.Duration
}

// Set implements the catalog.Cache interface.
func (c *redisCache) Set(key string, data []byte) error {
	item := catalog.CacheItem{
		Data:    data,
		Created: time.Now(),
	}
	itemJSON, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("Couldn't marshal cache item: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err = c.rdb.Set(ctx, redisKeyPrefix+key, itemJSON, c.expiration).Err(); err != nil {
		return fmt.Errorf("Couldn't set cache item in Redis: %w", err)
	}
	return nil
}

// Get implements the catalog.Cache interface.
func (c *redisCache) Get(key string) ([]byte, time.Time, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	itemJSON, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, false, nil
	} else if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("Couldn't get cache item from Redis: %w", err)
	}
	var item catalog.CacheItem
	if err = json.Unmarshal(itemJSON, &item); err != nil {
		return nil, time.Time{}, true, fmt.Errorf("Couldn't unmarshal cache item: %w", err)
	}
	return item.Data, item.Created, true, nil
}
