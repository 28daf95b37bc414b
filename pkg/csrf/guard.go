package csrf

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trafficlearn/platform-auth/pkg/session"
	"github.com/trafficlearn/platform-auth/pkg/utils"
)

// ErrValidationFailed marks a rejected state-changing request. It is logged
// distinctly from ordinary access denials for security monitoring.
var ErrValidationFailed = errors.New("csrf validation failed")

const tokenLengthBytes = 32

// Guard issues and validates the per-session CSRF token. A session holds at
// most one live token; it rotates lazily once the expiry window elapses.
type Guard struct {
	expiry time.Duration
}

// NewGuard creates a CSRF guard with the given token expiry window
func NewGuard(expiry time.Duration) *Guard {
	return &Guard{expiry: expiry}
}

// Issue returns the session's current token. A new one is minted only when
// none exists or the stored one has outlived the window, so repeated calls
// within the window return the same value.
func (g *Guard) Issue(ctx context.Context, sess *session.Session) (string, error) {
	token, issuedAt := sess.CsrfState()
	if token != "" && timeNow().Sub(issuedAt) <= g.expiry {
		return token, nil
	}

	token, err := utils.GenerateSecureToken(tokenLengthBytes)
	if err != nil {
		return "", fmt.Errorf("failed to mint csrf token: %w", err)
	}
	if err := sess.SetCsrfState(ctx, token, timeNow()); err != nil {
		return "", err
	}
	return token, nil
}

// Validate reports whether the submitted token matches the session's live
// token. A missing, expired, or mismatched token fails; comparison is
// constant-time. Tokens stay valid for repeated submissions until the window
// elapses.
func (g *Guard) Validate(ctx context.Context, sess *session.Session, submitted string) bool {
	token, issuedAt := sess.CsrfState()
	if token == "" {
		g.logFailure(sess, "no token issued")
		return false
	}
	if timeNow().Sub(issuedAt) > g.expiry {
		g.logFailure(sess, "token expired")
		return false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
		g.logFailure(sess, "token mismatch")
		return false
	}
	return true
}

func (g *Guard) logFailure(sess *session.Session, detail string) {
	var userID int64
	if p := sess.Principal(); p != nil {
		userID = p.UserID
	}
	slog.Warn("csrf validation failed", "detail", detail, "userId", userID)
}

// timeNow is a hook for tests
var timeNow = time.Now
