package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortmyscene/internal/auth"
	"sortmyscene/internal/shared/config"
)

// stubProvider resolves tokens from a fixed table.
type stubProvider struct {
	users     map[string]*auth.User // access token -> user
	refreshed map[string]*auth.Session
}

func (p *stubProvider) SignUp(ctx context.Context, email, password string, profile auth.Profile) (*auth.Session, error) {
	return nil, auth.ErrInvalidCredentials
}

func (p *stubProvider) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	return nil, auth.ErrInvalidCredentials
}

func (p *stubProvider) SignOut(ctx context.Context, accessToken string) error { return nil }

func (p *stubProvider) GetUser(ctx context.Context, accessToken string) (*auth.User, error) {
	if user, ok := p.users[accessToken]; ok {
		return user, nil
	}
	return nil, auth.ErrInvalidToken
}

func (p *stubProvider) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	if session, ok := p.refreshed[refreshToken]; ok {
		return session, nil
	}
	return nil, auth.ErrInvalidToken
}

func sessionTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func testContext(cookies map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for name, value := range cookies {
		c.Request.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	return c, w
}

func TestCurrent_GuestWithoutCookies(t *testing.T) {
	manager := NewManager(&stubProvider{}, sessionTestConfig())
	c, _ := testContext(nil)

	user, err := manager.Current(c)

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCurrent_ValidAccessToken(t *testing.T) {
	provider := &stubProvider{
		users: map[string]*auth.User{
			"access-1": {ID: "user-1", Email: "asha@example.com"},
		},
	}
	manager := NewManager(provider, sessionTestConfig())
	c, _ := testContext(map[string]string{AccessTokenCookie: "access-1"})

	user, err := manager.Current(c)

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)
}

func TestCurrent_RefreshesExpiredAccessToken(t *testing.T) {
	provider := &stubProvider{
		users: map[string]*auth.User{},
		refreshed: map[string]*auth.Session{
			"refresh-1": {
				AccessToken:  "access-2",
				RefreshToken: "refresh-2",
				User:         auth.User{ID: "user-1", Email: "asha@example.com"},
			},
		},
	}
	manager := NewManager(provider, sessionTestConfig())
	c, w := testContext(map[string]string{
		AccessTokenCookie:  "stale",
		RefreshTokenCookie: "refresh-1",
	})

	user, err := manager.Current(c)

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)

	// The refreshed pair lands on the response.
	cookies := w.Result().Cookies()
	values := map[string]string{}
	for _, cookie := range cookies {
		values[cookie.Name] = cookie.Value
	}
	assert.Equal(t, "access-2", values[AccessTokenCookie])
	assert.Equal(t, "refresh-2", values[RefreshTokenCookie])
}

func TestCurrent_StaleRefreshTokenMeansGuest(t *testing.T) {
	provider := &stubProvider{users: map[string]*auth.User{}}
	manager := NewManager(provider, sessionTestConfig())
	c, w := testContext(map[string]string{
		AccessTokenCookie:  "stale",
		RefreshTokenCookie: "also-stale",
	})

	user, err := manager.Current(c)

	require.NoError(t, err)
	assert.Nil(t, user)

	// The dead cookies are dropped.
	for _, cookie := range w.Result().Cookies() {
		assert.Less(t, cookie.MaxAge, 0)
	}
}

func TestWriteAndClearSession(t *testing.T) {
	manager := NewManager(&stubProvider{}, sessionTestConfig())
	c, w := testContext(nil)

	manager.WriteSession(c, &auth.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, cookie := range cookies {
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)
	}

	c2, w2 := testContext(nil)
	manager.ClearSession(c2)
	for _, cookie := range w2.Result().Cookies() {
		assert.Less(t, cookie.MaxAge, 0)
		assert.Empty(t, cookie.Value)
	}
}

func TestGetSession_Endpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	provider := &stubProvider{
		users: map[string]*auth.User{
			"access-1": {ID: "user-1", Email: "asha@example.com"},
		},
	}
	manager := NewManager(provider, sessionTestConfig())

	engine := gin.New()
	api := engine.Group("/api/v1")
	SetupSessionRoutes(api, NewController(manager))

	// Guest.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var guest struct {
		Data SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &guest))
	assert.False(t, guest.Data.Authenticated)
	assert.Nil(t, guest.Data.User)

	// Signed in.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "access-1"})
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var signedIn struct {
		Data SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signedIn))
	assert.True(t, signedIn.Data.Authenticated)
	require.NotNil(t, signedIn.Data.User)
	assert.Equal(t, "user-1", signedIn.Data.User.ID)
}
