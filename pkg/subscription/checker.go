package subscription

import (
	"context"
	"time"
)

// Checker answers whether a user holds an active, unexpired subscription as
// of a point in time. Status is always queried fresh; nothing is cached
// across requests.
type Checker interface {
	HasActive(ctx context.Context, userID int64, asOf time.Time) (bool, error)
}
