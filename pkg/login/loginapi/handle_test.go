package loginapi

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlearn/platform-auth/pkg/csrf"
	"github.com/trafficlearn/platform-auth/pkg/gate"
	"github.com/trafficlearn/platform-auth/pkg/login"
	"github.com/trafficlearn/platform-auth/pkg/rememberme"
	"github.com/trafficlearn/platform-auth/pkg/session"
	"github.com/trafficlearn/platform-auth/pkg/user"
)

func setupServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	users := user.NewInMemRepository()
	loginService := login.NewLoginService(users)

	hash, err := loginService.HashPassword("secret123")
	require.NoError(t, err)
	users.Add(user.User{
		Email:        "learner@example.com",
		PasswordHash: hash,
		Role:         user.RoleLearner,
		Status:       user.StatusActive,
		FirstName:    "Lena",
		LastName:     "Learner",
	})

	manager := session.NewManager(session.NewInMemStore(), 24*time.Hour, session.DefaultCookieConfig())
	remember := rememberme.NewService(rememberme.NewInMemRepository(), users, 30*24*time.Hour, false)
	guard := csrf.NewGuard(time.Hour)
	h := NewHandle(loginService, remember, guard, gate.DefaultPaths())

	r := chi.NewRouter()
	r.Use(manager.Middleware("/login"))
	r.Group(h.Routes)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return srv, client
}

func fetchLoginForm(t *testing.T, srv *httptest.Server, client *http.Client) loginFormResponse {
	t.Helper()
	resp, err := client.Get(srv.URL + "/login")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var form loginFormResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&form))
	return form
}

func postForm(t *testing.T, srv *httptest.Server, client *http.Client, path string, values url.Values) *http.Response {
	t.Helper()
	resp, err := client.Post(srv.URL+path, "application/x-www-form-urlencoded",
		strings.NewReader(values.Encode()))
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestLoginForm_IssuesCsrfToken(t *testing.T) {
	srv, client := setupServer(t)

	form := fetchLoginForm(t, srv, client)
	assert.Len(t, form.CsrfToken, 64)
	assert.Nil(t, form.Flash)

	// same session, same token
	again := fetchLoginForm(t, srv, client)
	assert.Equal(t, form.CsrfToken, again.CsrfToken)
}

func TestLogin_SuccessRedirectsToDashboard(t *testing.T) {
	srv, client := setupServer(t)
	fetchLoginForm(t, srv, client)

	resp := postForm(t, srv, client, "/login", url.Values{
		"email":    {"learner@example.com"},
		"password": {"secret123"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/learner/dashboard", resp.Header.Get("Location"))

	meResp, err := client.Get(srv.URL + "/api/me")
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var me meResponse
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	assert.Equal(t, "learner@example.com", me.Principal.Email)
	assert.Equal(t, user.RoleLearner, me.Principal.Role)
}

func TestLogin_WrongPasswordFlashesGenericError(t *testing.T) {
	srv, client := setupServer(t)
	fetchLoginForm(t, srv, client)

	resp := postForm(t, srv, client, "/login", url.Values{
		"email":    {"learner@example.com"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	form := fetchLoginForm(t, srv, client)
	require.NotNil(t, form.Flash)
	assert.Equal(t, session.FlashError, form.Flash.Type)
	assert.Equal(t, "Invalid email or password", form.Flash.Message)

	// flash is pop-once
	assert.Nil(t, fetchLoginForm(t, srv, client).Flash)
}

func TestLoginForm_AuthenticatedVisitorRedirected(t *testing.T) {
	srv, client := setupServer(t)
	fetchLoginForm(t, srv, client)
	postForm(t, srv, client, "/login", url.Values{
		"email":    {"learner@example.com"},
		"password": {"secret123"},
	})

	resp, err := client.Get(srv.URL + "/login")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/learner/dashboard", resp.Header.Get("Location"))
}

func TestLogin_RememberMeSetsCookie(t *testing.T) {
	srv, client := setupServer(t)
	fetchLoginForm(t, srv, client)

	resp := postForm(t, srv, client, "/login", url.Values{
		"email":       {"learner@example.com"},
		"password":    {"secret123"},
		"remember_me": {"on"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var rememberCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == rememberme.CookieName {
			rememberCookie = c
		}
	}
	require.NotNil(t, rememberCookie)
	assert.Contains(t, rememberCookie.Value, ":")
	assert.True(t, rememberCookie.HttpOnly)
}

func TestLogout_DestroysSessionAndRememberMe(t *testing.T) {
	srv, client := setupServer(t)
	form := fetchLoginForm(t, srv, client)
	postForm(t, srv, client, "/login", url.Values{
		"email":       {"learner@example.com"},
		"password":    {"secret123"},
		"remember_me": {"on"},
	})

	// csrf state carries over into the authenticated session
	resp := postForm(t, srv, client, "/logout", url.Values{
		csrf.FormField: {form.CsrfToken},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	var rememberCleared bool
	for _, c := range resp.Cookies() {
		if c.Name == rememberme.CookieName && c.MaxAge < 0 {
			rememberCleared = true
		}
	}
	assert.True(t, rememberCleared)

	meResp, err := client.Get(srv.URL + "/api/me")
	require.NoError(t, err)
	meResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode)
}

func TestLogout_RejectedWithoutCsrfToken(t *testing.T) {
	srv, client := setupServer(t)
	fetchLoginForm(t, srv, client)
	postForm(t, srv, client, "/login", url.Values{
		"email":    {"learner@example.com"},
		"password": {"secret123"},
	})

	resp := postForm(t, srv, client, "/logout", url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	// still logged in
	meResp, err := client.Get(srv.URL + "/api/me")
	require.NoError(t, err)
	meResp.Body.Close()
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestMe_Anonymous(t *testing.T) {
	srv, client := setupServer(t)

	resp, err := client.Get(srv.URL + "/api/me")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
