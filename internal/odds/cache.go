package odds

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// QuoteCache is a short-TTL Redis cache for quotes, keyed per player and
// game so repeated pricing calls between volume changes stay cheap.
type QuoteCache struct {
	r   *redis.Client
	ttl time.Duration
}

// NewQuoteCache creates a quote cache with the given TTL.
func NewQuoteCache(r *redis.Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{r: r, ttl: ttl}
}

func quoteKey(playerID, gameID string) string {
	return "odds:quote:" + playerID + ":" + gameID
}

// Get loads a cached quote into dst. The boolean reports a cache hit.
func (c *QuoteCache) Get(ctx context.Context, playerID, gameID string, dst any) (bool, error) {
	b, err := c.r.Get(ctx, quoteKey(playerID, gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

// Set stores a quote under the cache TTL.
func (c *QuoteCache) Set(ctx context.Context, playerID, gameID string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.r.Set(ctx, quoteKey(playerID, gameID), b, c.ttl).Err()
}
