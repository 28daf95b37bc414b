package rememberme

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db DBTX
}

// NewPostgresRepository creates a new PostgreSQL remember-me repository
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists a new credential
func (r *PostgresRepository) Create(ctx context.Context, cred Credential) (Credential, error) {
	if cred.ID == uuid.Nil {
		cred.ID = uuid.New()
	}
	if cred.IssuedAt.IsZero() {
		cred.IssuedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO remember_tokens (id, user_id, token_hash, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, cred.ID, cred.UserID, cred.TokenHash, cred.IssuedAt, cred.ExpiresAt)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to create remember-me credential: %w", err)
	}
	return cred, nil
}

// FindActiveByUserID returns the unexpired credentials for a user
func (r *PostgresRepository) FindActiveByUserID(ctx context.Context, userID int64, asOf time.Time) ([]Credential, error) {
	query := `
		SELECT id, user_id, token_hash, issued_at, expires_at
		FROM remember_tokens
		WHERE user_id = $1 AND expires_at > $2
	`
	rows, err := r.db.Query(ctx, query, userID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query remember-me credentials: %w", err)
	}
	defer rows.Close()

	var creds []Credential
	for rows.Next() {
		var cred Credential
		if err := rows.Scan(&cred.ID, &cred.UserID, &cred.TokenHash, &cred.IssuedAt, &cred.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan remember-me credential: %w", err)
		}
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read remember-me credentials: %w", err)
	}
	return creds, nil
}

// DeleteByID revokes a single credential
func (r *PostgresRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM remember_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete remember-me credential: %w", err)
	}
	return nil
}

// DeleteByUserID revokes every credential for a user
func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM remember_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete remember-me credentials: %w", err)
	}
	return nil
}

// DeleteExpired removes credentials past their expiry
func (r *PostgresRepository) DeleteExpired(ctx context.Context, asOf time.Time) error {
	_, err := r.db.Exec(ctx, `DELETE FROM remember_tokens WHERE expires_at <= $1`, asOf)
	if err != nil {
		return fmt.Errorf("failed to delete expired remember-me credentials: %w", err)
	}
	return nil
}
