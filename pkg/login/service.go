package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trafficlearn/platform-auth/pkg/session"
	"github.com/trafficlearn/platform-auth/pkg/user"
)

// ErrInvalidCredentials is returned for unknown email, wrong password, and
// inactive account alike, so callers cannot distinguish them and leak which
// one occurred.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginService verifies credentials against the user store
type LoginService struct {
	users  user.Repository
	hasher PasswordHasher
	legacy PasswordHasher
}

// NewLoginService creates a login service. New hashes use the Argon2id
// hasher; bcrypt hashes from the previous platform still verify.
func NewLoginService(users user.Repository) *LoginService {
	return &LoginService{
		users:  users,
		hasher: NewArgon2Hasher(),
		legacy: &BcryptHasher{},
	}
}

// hasherFor picks the verifier matching the stored hash format
func (s *LoginService) hasherFor(encodedHash string) PasswordHasher {
	if strings.HasPrefix(encodedHash, "$argon2id$") {
		return s.hasher
	}
	return s.legacy
}

// HashPassword hashes a plain-text password for storage
func (s *LoginService) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

// Authenticate verifies the email/password pair against an active user
// record and returns the principal on success. Every failure path returns
// ErrInvalidCredentials.
func (s *LoginService) Authenticate(ctx context.Context, email, password string) (session.Principal, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			slog.Error("Failed to look up user", "err", err)
		}
		return session.Principal{}, ErrInvalidCredentials
	}

	if !u.IsActive() {
		slog.Info("Login attempt on inactive account", "userId", u.ID)
		return session.Principal{}, ErrInvalidCredentials
	}

	valid, err := s.hasherFor(u.PasswordHash).Verify(password, u.PasswordHash)
	if err != nil {
		slog.Error("Failed to verify password", "userId", u.ID, "err", err)
		return session.Principal{}, ErrInvalidCredentials
	}
	if !valid {
		return session.Principal{}, ErrInvalidCredentials
	}

	p, err := session.NewPrincipal(u)
	if err != nil {
		return session.Principal{}, fmt.Errorf("failed to build principal: %w", err)
	}

	slog.Info("User authenticated", "userId", u.ID, "role", u.Role)
	return p, nil
}
