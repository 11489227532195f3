package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied idempotency keys so a retried
// request is not applied twice
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl.
	// Returns true if the key was newly claimed, false if it is already held.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether key is currently held
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets key so the request may be retried, used when the
	// claimed request did not succeed
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
