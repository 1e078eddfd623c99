package interfaces

import (
	"context"
	"time"
)

// ICache abstracts the read-side cache (Redis) used for dashboard aggregates.
// Get returns the zero string on a miss.
type ICache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}
