package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// NewPostgresRepository creates a new PostgreSQL user repository
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `
	id, email, password, user_type, status,
	first_name, last_name, phone, language_preference, created_at
`

func (r *PostgresRepository) scanUser(row pgx.Row) (User, error) {
	var u User
	var roleStr string
	var statusStr string
	var phone, language sql.NullString

	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &roleStr, &statusStr,
		&u.FirstName, &u.LastName, &phone, &language, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to scan user: %w", err)
	}

	role, err := ParseRole(roleStr)
	if err != nil {
		return User{}, fmt.Errorf("invalid role on user %d: %w", u.ID, err)
	}
	u.Role = role
	u.Status = Status(statusStr)
	u.Phone = phone.String
	u.Language = language.String
	if u.Language == "" {
		u.Language = DefaultLanguage
	}

	return u, nil
}

// FindByEmail returns the user with the given email address
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

// FindByID returns the user with the given id
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}
