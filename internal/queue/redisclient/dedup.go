package redisclient

import (
	"context"
	"time"
)

// AcquireOnce claims a one-shot marker via SET NX. It returns true when
// this caller is the first within the TTL window, which is how the worker
// avoids sending the same notification twice across retries and replicas.
func (c *Client) AcquireOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.redisdb.SetNX(ctx, key, "1", ttl).Result()
}

// Release drops the marker early, letting a failed send be retried.
func (c *Client) Release(ctx context.Context, key string) error {
	return c.redisdb.Del(ctx, key).Err()
}
