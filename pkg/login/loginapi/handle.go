package loginapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/trafficlearn/platform-auth/pkg/csrf"
	"github.com/trafficlearn/platform-auth/pkg/gate"
	"github.com/trafficlearn/platform-auth/pkg/login"
	"github.com/trafficlearn/platform-auth/pkg/rememberme"
	"github.com/trafficlearn/platform-auth/pkg/session"
)

// Handle wires the authentication endpoints. Page rendering is owned by the
// web layer; these handlers produce redirects with flash notices for form
// flows and JSON for the API routes.
type Handle struct {
	loginService *login.LoginService
	remember     *rememberme.Service
	guard        *csrf.Guard
	paths        gate.Paths
}

// NewHandle creates the authentication handler set
func NewHandle(loginService *login.LoginService, remember *rememberme.Service, guard *csrf.Guard, paths gate.Paths) *Handle {
	return &Handle{
		loginService: loginService,
		remember:     remember,
		guard:        guard,
		paths:        paths,
	}
}

// Routes mounts the handler's endpoints onto a chi router. The logout route
// is CSRF-protected; the login submission is not, matching the platform's
// behavior of only binding tokens to established form flows.
func (h *Handle) Routes(r chi.Router) {
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.With(h.guard.Protect()).Post("/logout", h.Logout)
	r.Get("/api/me", h.Me)
}

type loginFormResponse struct {
	CsrfToken string         `json:"csrf_token"`
	Flash     *session.Flash `json:"flash,omitempty"`
}

type meResponse struct {
	Principal session.Principal `json:"principal"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// LoginForm serves the login entry point. An already authenticated visitor
// is sent straight to their dashboard; everyone else gets the form payload
// with a fresh-or-current CSRF token and any pending flash notice.
func (h *Handle) LoginForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	if p := sess.Principal(); p != nil {
		http.Redirect(w, r, h.paths.Dashboard(p.Role), http.StatusFound)
		return
	}

	token, err := h.guard.Issue(ctx, sess)
	if err != nil {
		slog.Error("Failed to issue csrf token", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: "internal error"})
		return
	}

	flash, err := sess.PopFlash(ctx)
	if err != nil {
		slog.Error("Failed to pop flash", "err", err)
	}

	render.JSON(w, r, loginFormResponse{CsrfToken: token, Flash: flash})
}

// Login handles the credential form submission. Success binds the principal
// to a regenerated session, optionally issues a remember-me credential, and
// redirects to the role dashboard. Failure carries a single generic notice
// so nothing about the account leaks.
func (h *Handle) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	remember := r.PostFormValue("remember_me") != ""

	p, err := h.loginService.Authenticate(ctx, email, password)
	if err != nil {
		if !errors.Is(err, login.ErrInvalidCredentials) {
			slog.Error("Authentication failed unexpectedly", "err", err)
		}
		if err := sess.SetFlash(ctx, session.FlashError, "Invalid email or password"); err != nil {
			slog.Error("Failed to set flash", "err", err)
		}
		http.Redirect(w, r, h.paths.Login, http.StatusFound)
		return
	}

	if err := sess.Create(ctx, p); err != nil {
		slog.Error("Failed to create session", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if remember {
		if _, err := h.remember.Issue(ctx, w, p.UserID); err != nil {
			slog.Error("Failed to issue remember-me credential", "userId", p.UserID, "err", err)
		}
	}

	if err := sess.SetFlash(ctx, session.FlashSuccess, "Login successful"); err != nil {
		slog.Error("Failed to set flash", "err", err)
	}
	http.Redirect(w, r, h.paths.Dashboard(p.Role), http.StatusFound)
}

// Logout revokes the user's remember-me credentials, destroys the session,
// and returns to the login page
func (h *Handle) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	if p := sess.Principal(); p != nil {
		if err := h.remember.Clear(ctx, w, p.UserID); err != nil {
			slog.Error("Failed to revoke remember-me credentials", "userId", p.UserID, "err", err)
		}
	}

	if err := sess.Destroy(ctx); err != nil {
		slog.Error("Failed to destroy session", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := sess.SetFlash(ctx, session.FlashSuccess, "You have been logged out"); err != nil {
		slog.Error("Failed to set flash", "err", err)
	}
	http.Redirect(w, r, h.paths.Login, http.StatusFound)
}

// Me returns the authenticated principal as JSON
func (h *Handle) Me(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	p := sess.Principal()
	if p == nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, errorResponse{Error: "not authenticated"})
		return
	}

	render.JSON(w, r, meResponse{Principal: *p})
}
