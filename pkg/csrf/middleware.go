package csrf

import (
	"log/slog"
	"net/http"

	"github.com/trafficlearn/platform-auth/pkg/session"
)

// FormField is the form/header name carrying the submitted token
const FormField = "csrf_token"

// Protect validates the submitted CSRF token on every state-changing method
// before the handler runs. The token is read from the form field or, for
// non-form clients, the X-CSRF-Token header. Rejected requests get one flash
// notice and one redirect back to the referring page.
func (g *Guard) Protect() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			sess := session.FromContext(ctx)
			if sess == nil {
				slog.Error("CSRF protection requires the session middleware")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			submitted := r.PostFormValue(FormField)
			if submitted == "" {
				submitted = r.Header.Get("X-CSRF-Token")
			}

			if !g.Validate(ctx, sess, submitted) {
				if err := sess.SetFlash(ctx, session.FlashError, "Invalid or expired form token. Please try again."); err != nil {
					slog.Error("Failed to set flash", "err", err)
				}
				target := r.Referer()
				if target == "" {
					target = "/"
				}
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
