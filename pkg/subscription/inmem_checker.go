package subscription

import (
	"context"
	"sync"
	"time"
)

// InMemChecker implements Checker with an in-memory map of subscription end
// dates, for tests and database-free wiring
type InMemChecker struct {
	endDates map[int64]time.Time
	mu       sync.Mutex
}

// NewInMemChecker creates a new in-memory subscription checker
func NewInMemChecker() *InMemChecker {
	return &InMemChecker{
		endDates: make(map[int64]time.Time),
	}
}

// Grant records an active subscription for the user ending at until
func (c *InMemChecker) Grant(userID int64, until time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endDates[userID] = until
}

// Revoke removes the user's subscription
func (c *InMemChecker) Revoke(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.endDates, userID)
}

// HasActive reports whether the user's subscription extends to asOf
func (c *InMemChecker) HasActive(ctx context.Context, userID int64, asOf time.Time) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	until, exists := c.endDates[userID]
	return exists && !until.Before(asOf), nil
}
