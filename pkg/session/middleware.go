package session

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey int

const sessionContextKey contextKey = iota

// FromContext returns the Session attached by Middleware, or nil when the
// request did not pass through it
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey).(*Session)
	return sess
}

// Middleware loads the request's session and enforces the sliding timeout
// before any route logic runs. An authenticated session past its lifetime is
// destroyed and the request redirected to loginPath with a "session expired"
// notice; a surviving one has its timestamp refreshed.
func (m *Manager) Middleware(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sess, err := m.Load(ctx, w, r)
			if err != nil {
				slog.Error("Failed to load session", "err", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			if sess.Expired(timeNow()) {
				userID := sess.rec.Principal.UserID
				if err := sess.Destroy(ctx); err != nil {
					slog.Error("Failed to destroy expired session", "err", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				if err := sess.SetFlash(ctx, FlashWarning, "Your session has expired. Please login again."); err != nil {
					slog.Error("Failed to set flash", "err", err)
				}
				slog.Info("Session timed out", "userId", userID)
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			if err := sess.Touch(ctx); err != nil {
				slog.Error("Failed to touch session", "err", err)
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionContextKey, sess)))
		})
	}
}
