package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlearn/platform-auth/pkg/user"
)

func testPrincipal() Principal {
	return Principal{
		UserID:    42,
		Email:     "learner@example.com",
		FirstName: "Aline",
		LastName:  "Uwase",
		Role:      user.RoleLearner,
		Language:  "en",
	}
}

func loadSession(t *testing.T, m *Manager, cookieValue string) (*Session, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookieValue != "" {
		r.AddCookie(&http.Cookie{Name: m.cookie.Name, Value: cookieValue})
	}
	sess, err := m.Load(context.Background(), w, r)
	require.NoError(t, err)
	return sess, w
}

func TestManagerLoad_CreatesAnonymousSession(t *testing.T) {
	m := NewManager(NewInMemStore(), 24*time.Hour, DefaultCookieConfig())

	sess, w := loadSession(t, m, "")
	assert.Nil(t, sess.Principal())
	assert.NotEmpty(t, sess.ID())

	// The new id must reach the client
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, sess.ID(), cookies[len(cookies)-1].Value)
}

func TestSessionCreate_RegeneratesIdentifier(t *testing.T) {
	m := NewManager(NewInMemStore(), 24*time.Hour, DefaultCookieConfig())
	ctx := context.Background()

	sess, _ := loadSession(t, m, "")
	anonymousID := sess.ID()

	require.NoError(t, sess.Create(ctx, testPrincipal()))
	assert.NotEqual(t, anonymousID, sess.ID(), "login must regenerate the session id")

	p := sess.Principal()
	require.NotNil(t, p)
	assert.Equal(t, testPrincipal(), *p)

	// The superseded record must be gone
	old, err := m.store.Get(ctx, anonymousID)
	require.NoError(t, err)
	assert.Nil(t, old)
}

func TestSessionCreate_ReplacesPrincipalWholesale(t *testing.T) {
	m := NewManager(NewInMemStore(), 24*time.Hour, DefaultCookieConfig())
	ctx := context.Background()

	sess, _ := loadSession(t, m, "")
	require.NoError(t, sess.Create(ctx, testPrincipal()))

	other := testPrincipal()
	other.UserID = 7
	other.Role = user.RoleAdmin
	require.NoError(t, sess.Create(ctx, other))

	p := sess.Principal()
	require.NotNil(t, p)
	assert.Equal(t, int64(7), p.UserID)
	assert.Equal(t, user.RoleAdmin, p.Role)
}

func TestSessionDestroy(t *testing.T) {
	m := NewManager(NewInMemStore(), 24*time.Hour, DefaultCookieConfig())
	ctx := context.Background()

	sess, _ := loadSession(t, m, "")
	require.NoError(t, sess.Create(ctx, testPrincipal()))
	loggedInID := sess.ID()

	require.NoError(t, sess.Destroy(ctx))
	assert.Nil(t, sess.Principal())
	assert.NotEqual(t, loggedInID, sess.ID())

	// The destroyed record must not be loadable again
	rec, err := m.store.Get(ctx, loggedInID)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSessionRoundTrip_AcrossRequests(t *testing.T) {
	m := NewManager(NewInMemStore(), 24*time.Hour, DefaultCookieConfig())
	ctx := context.Background()

	first, _ := loadSession(t, m, "")
	require.NoError(t, first.Create(ctx, testPrincipal()))

	second, _ := loadSession(t, m, first.ID())
	p := second.Principal()
	require.NotNil(t, p)
	assert.Equal(t, testPrincipal(), *p)
}

func TestSessionExpired(t *testing.T) {
	m := NewManager(NewInMemStore(), time.Hour, DefaultCookieConfig())
	ctx := context.Background()

	sess, _ := loadSession(t, m, "")

	// Anonymous sessions never time out
	assert.False(t, sess.Expired(time.Now().Add(48*time.Hour)))

	require.NoError(t, sess.Create(ctx, testPrincipal()))
	assert.False(t, sess.Expired(time.Now()))
	assert.True(t, sess.Expired(time.Now().Add(2*time.Hour)))

	// Touch slides the window
	require.NoError(t, sess.Touch(ctx))
	assert.False(t, sess.Expired(time.Now().Add(30*time.Minute)))
}

func TestSessionTouch_RefusesExpiredSession(t *testing.T) {
	m := NewManager(NewInMemStore(), 50*time.Millisecond, DefaultCookieConfig())
	ctx := context.Background()

	sess, _ := loadSession(t, m, "")
	require.NoError(t, sess.Create(ctx, testPrincipal()))

	time.Sleep(60 * time.Millisecond)
	assert.ErrorIs(t, sess.Touch(ctx), ErrExpired)
}

func TestFlash_PopOnce(t *testing.T) {
	m := NewManager(NewInMemStore(), 24*time.Hour, DefaultCookieConfig())
	ctx := context.Background()

	sess, _ := loadSession(t, m, "")
	require.NoError(t, sess.SetFlash(ctx, FlashWarning, "Your session has expired. Please login again."))

	flash, err := sess.PopFlash(ctx)
	require.NoError(t, err)
	require.NotNil(t, flash)
	assert.Equal(t, FlashWarning, flash.Type)
	assert.Equal(t, "Your session has expired. Please login again.", flash.Message)

	flash, err = sess.PopFlash(ctx)
	require.NoError(t, err)
	assert.Nil(t, flash)
}

func TestCsrfState_RoundTrip(t *testing.T) {
	m := NewManager(NewInMemStore(), 24*time.Hour, DefaultCookieConfig())
	ctx := context.Background()

	sess, _ := loadSession(t, m, "")

	token, issuedAt := sess.CsrfState()
	assert.Empty(t, token)
	assert.True(t, issuedAt.IsZero())

	now := time.Now().UTC()
	require.NoError(t, sess.SetCsrfState(ctx, "token-value", now))

	// Survives a reload through the store
	reloaded, _ := loadSession(t, m, sess.ID())
	token, issuedAt = reloaded.CsrfState()
	assert.Equal(t, "token-value", token)
	assert.WithinDuration(t, now, issuedAt, time.Second)
}
