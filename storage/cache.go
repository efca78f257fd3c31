package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"estate_browser/models"
)

const (
	cachePrefix  = "estate:"
	cacheListKey = cachePrefix + "properties"
)

func cachePropertyKey(id string) string {
	return cachePrefix + "property:" + id
}

// CachedPropertyStore puts a Redis cache-aside layer in front of a slower
// listing store. Redis failures are logged and fall through to the backend.
type CachedPropertyStore struct {
	next   PropertyStore
	client *redis.Client
	ttl    time.Duration
}

func NewCachedPropertyStore(next PropertyStore, client *redis.Client, ttl time.Duration) *CachedPropertyStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedPropertyStore{next: next, client: client, ttl: ttl}
}

// NewRedisClient builds a client the way the rest of the app expects it
func NewRedisClient(addr, password string) *redis.Client {
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func (c *CachedPropertyStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	var cached []models.Property
	if ok := c.get(ctx, cacheListKey, &cached); ok {
		return cached, nil
	}

	props, err := c.next.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, cacheListKey, props)
	return props, nil
}

func (c *CachedPropertyStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	var cached models.Property
	if ok := c.get(ctx, cachePropertyKey(id), &cached); ok {
		return &cached, nil
	}

	p, err := c.next.GetProperty(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	c.set(ctx, cachePropertyKey(id), p)
	return p, nil
}

func (c *CachedPropertyStore) UpsertProperty(ctx context.Context, p *models.Property) error {
	if err := c.next.UpsertProperty(ctx, p); err != nil {
		return err
	}
	c.drop(ctx, cacheListKey, cachePropertyKey(p.ID))
	return nil
}

func (c *CachedPropertyStore) DeleteProperty(ctx context.Context, id string) error {
	if err := c.next.DeleteProperty(ctx, id); err != nil {
		return err
	}
	c.drop(ctx, cacheListKey, cachePropertyKey(id))
	return nil
}

// Invalidate drops every cached listing entry.
func (c *CachedPropertyStore) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *CachedPropertyStore) get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		log.Printf("[Cache] get %s: %v", key, err)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("[Cache] decode %s: %v", key, err)
		return false
	}
	return true
}

func (c *CachedPropertyStore) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[Cache] set %s: %v", key, err)
	}
}

func (c *CachedPropertyStore) drop(ctx context.Context, keys ...string) {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[Cache] invalidate: %v", err)
	}
}
