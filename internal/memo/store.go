package memo

import (
	"context"
	"time"

	"github.com/angelmondragon/brewlytics/pkg/redis"
)

// DefaultTTL is how long memoized analytics stay valid.
const DefaultTTL = time.Hour

// Cache kinds double as metric labels and key segments.
const (
	KindProductRecommendations = "recs:products"
	KindBeanRecommendations    = "recs:beans"
	KindInsights               = "insights"
)

// Store is a byte-oriented key/value cache with per-entry expiry.
// Get reports a miss with ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Key builds the cache key for a kind scoped to one customer,
// e.g. brew:recs:products:<id>.
func Key(kind, customerID string) string {
	return redis.Key(kind, customerID)
}
