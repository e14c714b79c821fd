package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListCache keeps JSON-encoded list responses in redis for a short TTL.
// A nil *ListCache is a valid no-op cache, handlers don't need to branch.
type ListCache struct {
	client *Client
	ttl    time.Duration
}

func NewListCache(client *Client, ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &ListCache{
		client: client,
		ttl:    ttl,
	}
}

// GetJSON loads key into out; reports whether the key was present.
func (c *ListCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}

	raw, err := c.client.Raw().Get(ctx, key).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, err
	}

	err = json.Unmarshal(raw, out)

	if err != nil {
		return false, err
	}

	return true, nil
}

func (c *ListCache) SetJSON(ctx context.Context, key string, val any) error {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := json.Marshal(val)

	if err != nil {
		return err
	}

	return c.client.Raw().Set(ctx, key, raw, c.ttl).Err()
}

func (c *ListCache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}

	return c.client.Raw().Del(ctx, keys...).Err()
}
