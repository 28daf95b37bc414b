package rememberme

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/trafficlearn/platform-auth/pkg/session"
	"github.com/trafficlearn/platform-auth/pkg/user"
	"github.com/trafficlearn/platform-auth/pkg/utils"
)

// ErrMalformedCookie is returned when the cookie value is not "userID:token"
var ErrMalformedCookie = errors.New("malformed remember-me cookie")

// CookieName is the client-side credential cookie
const CookieName = "remember_me"

const tokenLengthBytes = 32

// Service issues and validates persistent login credentials. Tokens are
// persisted hashed, compared in constant time, and rotated after every
// successful silent login so a replayed cookie stops working.
type Service struct {
	repo         Repository
	users        user.Repository
	lifetime     time.Duration
	cookieSecure bool
}

// NewService creates a remember-me service. lifetime is the fixed credential
// validity (30 days on this platform), independent of session expiry.
func NewService(repo Repository, users user.Repository, lifetime time.Duration, cookieSecure bool) *Service {
	return &Service{
		repo:         repo,
		users:        users,
		lifetime:     lifetime,
		cookieSecure: cookieSecure,
	}
}

// Issue generates a fresh credential for the user, persists its hash, and
// sets the client cookie. Returns the cookie value for callers that need it.
func (s *Service) Issue(ctx context.Context, w http.ResponseWriter, userID int64) (string, error) {
	token, err := utils.GenerateSecureToken(tokenLengthBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate remember-me token: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.repo.Create(ctx, Credential{
		UserID:    userID,
		TokenHash: HashToken(token),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.lifetime),
	})
	if err != nil {
		return "", err
	}

	value := strconv.FormatInt(userID, 10) + ":" + token
	s.setCookie(w, value, now.Add(s.lifetime))
	slog.Info("Remember-me credential issued", "userId", userID)
	return value, nil
}

// TryLogin validates a cookie value and returns the principal it vouches
// for. On success the stored credential is rotated and the refreshed cookie
// set; on any failure the cookie is cleared and (nil, nil) returned.
func (s *Service) TryLogin(ctx context.Context, w http.ResponseWriter, cookieValue string) (*session.Principal, error) {
	userID, token, err := parseCookieValue(cookieValue)
	if err != nil {
		slog.Debug("Rejected remember-me cookie", "err", err)
		s.ClearCookie(w)
		return nil, nil
	}

	now := time.Now().UTC()
	creds, err := s.repo.FindActiveByUserID(ctx, userID, now)
	if err != nil {
		slog.Error("Failed to look up remember-me credentials", "userId", userID, "err", err)
		s.ClearCookie(w)
		return nil, nil
	}

	matched, ok := matchCredential(creds, token)
	if !ok {
		slog.Info("Remember-me token did not match any stored credential", "userId", userID)
		s.ClearCookie(w)
		return nil, nil
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil || !u.IsActive() {
		slog.Info("Remember-me login rejected for missing or inactive user", "userId", userID)
		s.ClearCookie(w)
		return nil, nil
	}

	// Rotate: revoke the used credential and issue a replacement so a
	// captured cookie cannot be replayed.
	if err := s.repo.DeleteByID(ctx, matched.ID); err != nil {
		slog.Error("Failed to revoke used remember-me credential", "userId", userID, "err", err)
	}
	if _, err := s.Issue(ctx, w, userID); err != nil {
		slog.Error("Failed to rotate remember-me credential", "userId", userID, "err", err)
	}

	p, err := session.NewPrincipal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to build principal: %w", err)
	}

	slog.Info("Silent remember-me login", "userId", userID)
	return &p, nil
}

// Clear deletes the client cookie and revokes all stored credentials for the
// user, across devices
func (s *Service) Clear(ctx context.Context, w http.ResponseWriter, userID int64) error {
	s.ClearCookie(w)
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	slog.Info("Remember-me credentials revoked", "userId", userID)
	return nil
}

// ClearCookie removes only the client-side cookie
func (s *Service) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
	})
}

func (s *Service) setCookie(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.cookieSecure,
	})
}

func parseCookieValue(value string) (int64, string, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return 0, "", ErrMalformedCookie
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", ErrMalformedCookie
	}
	return userID, parts[1], nil
}

// matchCredential compares the token hash against every candidate in
// constant time per candidate
func matchCredential(creds []Credential, token string) (Credential, bool) {
	submitted := []byte(HashToken(token))
	for _, cred := range creds {
		if subtle.ConstantTimeCompare([]byte(cred.TokenHash), submitted) == 1 {
			return cred, true
		}
	}
	return Credential{}, false
}
