package session

import (
	"context"
	"time"
)

// Store defines how session records are stored and retrieved. Implementations
// must treat the record id as opaque. A missing record is reported as
// (nil, nil), not an error.
type Store interface {
	// Get returns the record with the given id, or nil if none exists
	Get(ctx context.Context, id string) (*Record, error)

	// Put saves the record with the given time-to-live, overwriting any
	// previous state for the same id
	Put(ctx context.Context, rec *Record, ttl time.Duration) error

	// Delete removes the record with the given id
	Delete(ctx context.Context, id string) error
}
