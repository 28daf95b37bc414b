package rememberme

import (
	"log/slog"
	"net/http"

	"github.com/trafficlearn/platform-auth/pkg/session"
)

// Middleware attempts a silent login when the session carries no principal
// but the request carries a remember-me cookie. Runs after the session
// middleware and before any access-control gate.
func (s *Service) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess := session.FromContext(ctx)

			if sess != nil && sess.Principal() == nil {
				if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
					p, err := s.TryLogin(ctx, w, cookie.Value)
					if err != nil {
						slog.Error("Remember-me login failed", "err", err)
					} else if p != nil {
						if err := sess.Create(ctx, *p); err != nil {
							slog.Error("Failed to establish session from remember-me", "err", err)
						}
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
