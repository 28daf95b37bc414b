package user

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// InMemRepository implements Repository using an in-memory map
type InMemRepository struct {
	users  map[int64]User
	nextID int64
	mu     sync.Mutex
}

// NewInMemRepository creates a new in-memory user repository
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		users:  make(map[int64]User),
		nextID: 1,
	}
}

// Add stores a user and assigns an id if none is set. Intended for tests and
// the in-memory wiring mode.
func (r *InMemRepository) Add(u User) User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	} else if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = u
	slog.Debug("User added", "id", u.ID, "email", u.Email)
	return u
}

// FindByEmail returns the user with the given email address
func (r *InMemRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// FindByID returns the user with the given id
func (r *InMemRepository) FindByID(ctx context.Context, id int64) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, exists := r.users[id]
	if !exists {
		return User{}, ErrUserNotFound
	}
	return u, nil
}
