package gate

import (
	"log/slog"
	"net/http"

	"github.com/trafficlearn/platform-auth/pkg/session"
	"github.com/trafficlearn/platform-auth/pkg/user"
)

// RequireLogin rejects unauthenticated requests. Must be used after the
// session middleware (and after the remember-me middleware, so silent logins
// are honored).
func (g *Gate) RequireLogin(next http.Handler) http.Handler {
	return g.enforce(nil, false)(next)
}

// RequireRole returns a middleware that admits only principals with the
// given role
func (g *Gate) RequireRole(role user.Role) func(http.Handler) http.Handler {
	return g.enforce(&role, false)
}

// RequireSubscription returns a middleware that additionally demands an
// active subscription for the given role. Admins bypass the subscription
// part of the check.
func (g *Gate) RequireSubscription(role user.Role) func(http.Handler) http.Handler {
	return g.enforce(&role, true)
}

// enforce turns a Deny into exactly one flash notice plus one redirect and
// stops the chain; nothing downstream runs after a rejection
func (g *Gate) enforce(requiredRole *user.Role, requireSubscription bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess := session.FromContext(ctx)
			if sess == nil {
				slog.Error("Access gate requires the session middleware")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			decision := g.CheckAccess(ctx, sess.Principal(), requiredRole, requireSubscription)
			if !decision.Allowed {
				if err := sess.SetFlash(ctx, decision.Notice.Type, decision.Notice.Message); err != nil {
					slog.Error("Failed to set flash", "err", err)
				}
				http.Redirect(w, r, decision.RedirectTarget, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
