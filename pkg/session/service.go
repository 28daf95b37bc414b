package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/trafficlearn/platform-auth/pkg/utils"
)

// ErrExpired is returned when an operation finds the session past its lifetime
var ErrExpired = errors.New("session expired")

const idLengthBytes = 32

// Manager owns the session store and issues per-request Session handles
type Manager struct {
	store    Store
	lifetime time.Duration
	cookie   CookieConfig
}

// NewManager creates a session manager. lifetime bounds both the sliding
// timeout and the store ttl.
func NewManager(store Store, lifetime time.Duration, cookie CookieConfig) *Manager {
	return &Manager{
		store:    store,
		lifetime: lifetime,
		cookie:   cookie,
	}
}

// Lifetime returns the configured session lifetime
func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

// Session is the per-request handle on one session record. All mutation of
// session state goes through this handle; there is no ambient session global.
type Session struct {
	m   *Manager
	w   http.ResponseWriter
	rec *Record
}

// Load resolves the session for an incoming request. If the request carries
// no session cookie, or the referenced record no longer exists, a fresh
// anonymous record is created and its cookie issued.
func (m *Manager) Load(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	if cookie, err := r.Cookie(m.cookie.Name); err == nil && cookie.Value != "" {
		rec, err := m.store.Get(ctx, cookie.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		if rec != nil {
			return &Session{m: m, w: w, rec: rec}, nil
		}
	}

	sess := &Session{m: m, w: w}
	if err := sess.reset(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// reset replaces the handle's record with a fresh empty one under a new id
// and issues the matching cookie
func (s *Session) reset(ctx context.Context) error {
	id, err := utils.GenerateSecureToken(idLengthBytes)
	if err != nil {
		return fmt.Errorf("failed to generate session id: %w", err)
	}

	s.rec = &Record{
		ID:        id,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	s.m.cookie.setCookie(s.w, id)
	return nil
}

// storeGrace keeps expired records around long enough for the timeout check
// to observe them and emit its notice before the store drops them
const storeGrace = time.Hour

func (s *Session) save(ctx context.Context) error {
	if err := s.m.store.Put(ctx, s.rec, s.m.lifetime+storeGrace); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ID returns the current opaque session identifier
func (s *Session) ID() string {
	return s.rec.ID
}

// Principal returns the authenticated principal, or nil for an anonymous
// session
func (s *Session) Principal() *Principal {
	if s.rec.Principal == nil {
		return nil
	}
	p := *s.rec.Principal
	return &p
}

// Create binds the principal to this session under a freshly regenerated
// identifier, defeating session fixation. Flash and CSRF state carry over;
// any prior principal is replaced wholesale.
func (s *Session) Create(ctx context.Context, p Principal) error {
	id, err := utils.GenerateSecureToken(idLengthBytes)
	if err != nil {
		return fmt.Errorf("failed to generate session id: %w", err)
	}

	oldID := s.rec.ID
	s.rec.ID = id
	s.rec.Principal = &p
	s.rec.LoginTime = time.Now().UTC()

	if err := s.save(ctx); err != nil {
		return err
	}
	if err := s.m.store.Delete(ctx, oldID); err != nil {
		slog.Warn("Failed to delete superseded session record", "err", err)
	}
	s.m.cookie.setCookie(s.w, id)

	slog.Info("Session created", "userId", p.UserID, "role", p.Role)
	return nil
}

// Touch refreshes the login timestamp to now, sliding the timeout window.
// An already-expired session is not revived; callers must destroy it.
func (s *Session) Touch(ctx context.Context) error {
	if s.rec.Principal == nil {
		return nil
	}
	if s.Expired(timeNow()) {
		return ErrExpired
	}
	s.rec.LoginTime = time.Now().UTC()
	return s.save(ctx)
}

// Expired reports whether the principal's sliding timeout has elapsed.
// Anonymous sessions never expire through this check.
func (s *Session) Expired(now time.Time) bool {
	return s.rec.Principal != nil && now.Sub(s.rec.LoginTime) > s.m.lifetime
}

// Destroy clears the principal and all session-scoped tokens, invalidates the
// identifier, and leaves the caller with a fresh anonymous session
func (s *Session) Destroy(ctx context.Context) error {
	oldID := s.rec.ID
	if err := s.m.store.Delete(ctx, oldID); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	s.m.cookie.clearCookie(s.w)

	if err := s.reset(ctx); err != nil {
		return err
	}
	slog.Info("Session destroyed", "oldId", oldID[:8])
	return nil
}

// SetFlash records a one-shot notice, replacing any pending one
func (s *Session) SetFlash(ctx context.Context, t FlashType, message string) error {
	s.rec.Flash = &Flash{Type: t, Message: message}
	return s.save(ctx)
}

// PopFlash returns the pending notice and clears it, or nil if none is set
func (s *Session) PopFlash(ctx context.Context) (*Flash, error) {
	if s.rec.Flash == nil {
		return nil, nil
	}
	flash := s.rec.Flash
	s.rec.Flash = nil
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return flash, nil
}

// CsrfState returns the stored CSRF token and its issuance time
func (s *Session) CsrfState() (string, time.Time) {
	return s.rec.CsrfToken, s.rec.CsrfIssuedAt
}

// SetCsrfState stores a freshly minted CSRF token
func (s *Session) SetCsrfState(ctx context.Context, token string, issuedAt time.Time) error {
	s.rec.CsrfToken = token
	s.rec.CsrfIssuedAt = issuedAt
	return s.save(ctx)
}
