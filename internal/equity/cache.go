package equity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/common/metrics"
	"coaching-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "equity:zone:"

// CachedLookup serves repeated addresses from redis. Only successful answers are cached.
type CachedLookup struct {
	next   Lookup
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedLookup(next Lookup, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedLookup {
	return &CachedLookup{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "equity-cache"}),
	}
}

func (c *CachedLookup) Lookup(ctx context.Context, address string) (*models.ZoneLookupResult, error) {
	key := CacheKey(address)

	cached, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var res models.ZoneLookupResult
		if jsonErr := json.Unmarshal([]byte(cached), &res); jsonErr == nil {
			metrics.ZoneLookups.WithLabelValues("cache_hit").Inc()
			return &res, nil
		}
		c.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key})
	case !stderrors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", map[string]interface{}{"error": err.Error()})
	}

	start := time.Now()
	res, err := c.next.Lookup(ctx, address)
	metrics.ZoneLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if payload, mErr := json.Marshal(res); mErr == nil {
		if sErr := c.redis.Set(ctx, key, payload, c.ttl).Err(); sErr != nil {
			c.logger.Warn("cache write failed", map[string]interface{}{"error": sErr.Error()})
		}
	}
	return res, nil
}

// CacheKey normalises case and whitespace so trivially different spellings share an entry.
func CacheKey(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	sum := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
