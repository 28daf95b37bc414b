package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresChecker implements Checker against the subscriptions table
type PostgresChecker struct {
	db DBTX
}

// NewPostgresChecker creates a new PostgreSQL subscription checker
func NewPostgresChecker(db DBTX) *PostgresChecker {
	return &PostgresChecker{db: db}
}

// HasActive reports whether the user has an active subscription whose end
// date has not passed as of asOf
func (c *PostgresChecker) HasActive(ctx context.Context, userID int64, asOf time.Time) (bool, error) {
	query := `
		SELECT COUNT(*) FROM subscriptions
		WHERE user_id = $1 AND status = 'active' AND end_date >= $2
	`
	var count int
	if err := c.db.QueryRow(ctx, query, userID, asOf).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return count > 0, nil
}
