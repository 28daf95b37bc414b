package rememberme

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for remember-me credential storage
type Repository interface {
	// Create persists a new credential
	Create(ctx context.Context, cred Credential) (Credential, error)

	// FindActiveByUserID returns the unexpired credentials for a user.
	// Multiple rows mean multiple remembered devices.
	FindActiveByUserID(ctx context.Context, userID int64, asOf time.Time) ([]Credential, error)

	// DeleteByID revokes a single credential
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteByUserID revokes every credential for a user
	DeleteByUserID(ctx context.Context, userID int64) error

	// DeleteExpired removes credentials past their expiry (maintenance)
	DeleteExpired(ctx context.Context, asOf time.Time) error
}
