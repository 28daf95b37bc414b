package user

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when no user matches the lookup
var ErrUserNotFound = errors.New("user not found")

// Repository defines the interface for user data access
type Repository interface {
	// FindByEmail returns the user with the given email address
	FindByEmail(ctx context.Context, email string) (User, error)

	// FindByID returns the user with the given id
	FindByID(ctx context.Context, id int64) (User, error)
}
