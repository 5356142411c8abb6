package repository

import (
	"context"
	"time"
)

// CacheRepository stores serialized results for a limited time. A ttl of zero
// keeps the entry until evicted.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
