package rememberme

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemRepository implements Repository using an in-memory map
type InMemRepository struct {
	credentials map[uuid.UUID]Credential
	mu          sync.Mutex
}

// NewInMemRepository creates a new in-memory remember-me repository
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		credentials: make(map[uuid.UUID]Credential),
	}
}

// Create persists a new credential
func (r *InMemRepository) Create(ctx context.Context, cred Credential) (Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cred.ID == uuid.Nil {
		cred.ID = uuid.New()
	}
	r.credentials[cred.ID] = cred
	slog.Debug("Remember-me credential created", "userId", cred.UserID, "expiresAt", cred.ExpiresAt)
	return cred, nil
}

// FindActiveByUserID returns the unexpired credentials for a user
func (r *InMemRepository) FindActiveByUserID(ctx context.Context, userID int64, asOf time.Time) ([]Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var creds []Credential
	for _, cred := range r.credentials {
		if cred.UserID == userID && !cred.Expired(asOf) {
			creds = append(creds, cred)
		}
	}
	return creds, nil
}

// DeleteByID revokes a single credential
func (r *InMemRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.credentials, id)
	return nil
}

// DeleteByUserID revokes every credential for a user
func (r *InMemRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, cred := range r.credentials {
		if cred.UserID == userID {
			delete(r.credentials, id)
		}
	}
	return nil
}

// DeleteExpired removes credentials past their expiry
func (r *InMemRepository) DeleteExpired(ctx context.Context, asOf time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, cred := range r.credentials {
		if cred.Expired(asOf) {
			delete(r.credentials, id)
		}
	}
	return nil
}
