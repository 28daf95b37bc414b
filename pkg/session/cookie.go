package session

import (
	"net/http"
)

// CookieConfig defines how the session cookie is issued. The session cookie
// carries only the opaque record id and is always HttpOnly.
type CookieConfig struct {
	Name     string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// DefaultCookieConfig returns the standard session cookie settings
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Name:     "platform_session",
		Path:     "/",
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
}

// setCookie issues the session cookie to the client. The cookie is a browser
// session cookie: server-side expiry is what bounds its useful life.
func (c CookieConfig) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    id,
		Path:     c.Path,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

// clearCookie removes the session cookie from the client
func (c CookieConfig) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     c.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}
