package shared

import (
	"context"
	"time"
)

// DefaultIdempotencyTTL is how long a handled event ID is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which provider event IDs were already handled
// so that a redelivered webhook is acknowledged without being applied twice.
// Suppression is opt-in; without a store every delivery is processed.
type IdempotencyStore interface {
	// MarkProcessed records eventID for ttl. It reports false when the ID
	// was already recorded.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	// Forget drops the record for eventID so the next delivery is handled
	Forget(ctx context.Context, eventID string) error
	Close() error
}
