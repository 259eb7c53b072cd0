package ratingservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/attr"
	"github.com/redis/go-redis/v9"
)

const (
	ratingKeyPrefix = "ranksync:rating:"
	defaultCacheTTL = 5 * time.Minute
)

// redisCmdable is the slice of the go-redis API the cache needs.
// *redis.Client satisfies it.
type redisCmdable interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Cache fronts a rating Source with a redis snapshot cache. Cache failures
// never fail a lookup; the cache degrades to the upstream source and logs a
// warning.
type Cache struct {
	source Source
	redis  redisCmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache wraps source with a redis cache holding snapshots for ttl.
func NewCache(source Source, client redisCmdable, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{source: source, redis: client, ttl: ttl, logger: logger}
}

type cachedSnapshot struct {
	CurrentRating  *int `json:"current_rating"`
	BestRatingEver *int `json:"best_rating_ever"`
}

// GetCurrentRatings serves snapshots from redis where present and fetches
// the rest from the upstream source, writing fresh entries back with the
// configured TTL.
func (c *Cache) GetCurrentRatings(ctx context.Context, handles []ranksyncdomain.Handle) (map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot, error) {
	out := make(map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot, len(handles))
	if len(handles) == 0 {
		return out, nil
	}

	normalized := make([]ranksyncdomain.Handle, len(handles))
	keys := make([]string, len(handles))
	for i, h := range handles {
		normalized[i] = ranksyncdomain.NormalizeHandle(h)
		keys[i] = ratingKeyPrefix + string(normalized[i])
	}

	var misses []ranksyncdomain.Handle
	vals, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil || len(vals) != len(keys) {
		if err != nil {
			c.logger.WarnContext(ctx, "Rating cache read failed, falling back to upstream", attr.Error(err))
		}
		misses = normalized
	} else {
		for i, v := range vals {
			raw, ok := v.(string)
			if !ok {
				misses = append(misses, normalized[i])
				continue
			}
			var snap cachedSnapshot
			if err := json.Unmarshal([]byte(raw), &snap); err != nil {
				misses = append(misses, normalized[i])
				continue
			}
			out[normalized[i]] = ranksyncdomain.RatingSnapshot{
				Handle:         normalized[i],
				CurrentRating:  snap.CurrentRating,
				BestRatingEver: snap.BestRatingEver,
			}
		}
	}

	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.source.GetCurrentRatings(ctx, misses)
	if err != nil {
		return nil, err
	}

	for handle, snapshot := range fetched {
		out[handle] = snapshot
		payload, err := json.Marshal(cachedSnapshot{
			CurrentRating:  snapshot.CurrentRating,
			BestRatingEver: snapshot.BestRatingEver,
		})
		if err != nil {
			continue
		}
		if err := c.redis.Set(ctx, ratingKeyPrefix+string(handle), payload, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "Rating cache write failed", attr.Error(err))
		}
	}
	return out, nil
}

// GetRatingHistory is a pass-through. Histories are fetched once per
// promotion, so caching them buys nothing.
func (c *Cache) GetRatingHistory(ctx context.Context, handle ranksyncdomain.Handle) ([]ranksyncdomain.RatingPoint, error) {
	return c.source.GetRatingHistory(ctx, handle)
}

var _ Source = (*Cache)(nil)
