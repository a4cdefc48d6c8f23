package ports

import (
	"context"
	"errors"
	"time"

	"envrisk/internal/domain"
)

// ErrNotFound is returned by repositories for unknown ids.
var ErrNotFound = errors.New("not found")

// Cache is a best-effort TTL memoization layer. Concurrent callers may
// compute the same entry twice; that is acceptable for the idempotent loads
// that go through it.
type Cache interface {
	Get(key string) (any, bool)
	Put(key string, value any, ttl time.Duration)
}

// Collector fetches live environmental readings for a location. Collectors
// own all network I/O; the scoring core never performs any.
type Collector interface {
	Collect(ctx context.Context, lat, lon float64) (domain.Measurements, error)
}
