package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider records calls and plays back canned results.
type fakeProvider struct {
	signUpCalls int
	signInCalls int
	signOutErr  error

	session *Session
	err     error
}

func (p *fakeProvider) SignUp(ctx context.Context, email, password string, profile Profile) (*Session, error) {
	p.signUpCalls++
	return p.session, p.err
}

func (p *fakeProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	p.signInCalls++
	return p.session, p.err
}

func (p *fakeProvider) SignOut(ctx context.Context, accessToken string) error {
	return p.signOutErr
}

func (p *fakeProvider) GetUser(ctx context.Context, accessToken string) (*User, error) {
	return nil, ErrInvalidToken
}

func (p *fakeProvider) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	return nil, ErrInvalidToken
}

// fakeSessions records the cookie writes the controller asks for.
type fakeSessions struct {
	written     *Session
	cleared     bool
	signedIn    *User
	signedOut   bool
	current     *User
	accessToken string
}

func (s *fakeSessions) Current(c *gin.Context) (*User, error) { return s.current, nil }
func (s *fakeSessions) WriteSession(c *gin.Context, sess *Session) {
	s.written = sess
}
func (s *fakeSessions) ClearSession(c *gin.Context) { s.cleared = true }
func (s *fakeSessions) AccessToken(c *gin.Context) (string, bool) {
	return s.accessToken, s.accessToken != ""
}
func (s *fakeSessions) PublishSignedIn(user *User) { s.signedIn = user }
func (s *fakeSessions) PublishSignedOut()          { s.signedOut = true }

type authEnvelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       *User  `json:"data"`
}

func setupAuthTest(provider Provider, sessions SessionManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	SetupAuthRoutes(api, NewController(provider, sessions))
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) (*httptest.ResponseRecorder, authEnvelope) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var envelope authEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func testSession() *Session {
	return &Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    3600,
		User: User{
			ID:       "user-1",
			Email:    "asha@example.com",
			FullName: "Asha Rao",
		},
	}
}

func TestSignUp_ShortPasswordRejectedLocally(t *testing.T) {
	provider := &fakeProvider{}
	sessions := &fakeSessions{}
	engine := setupAuthTest(provider, sessions)

	w, env := postJSON(t, engine, "/api/v1/auth/signup", gin.H{
		"full_name":        "Asha Rao",
		"email":            "asha@example.com",
		"password":         "abc",
		"confirm_password": "abc",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgPasswordTooShort, env.Message)
	// Validation fails before any provider call.
	assert.Zero(t, provider.signUpCalls)
	assert.Nil(t, sessions.written)
}

func TestSignUp_PasswordMismatchRejectedLocally(t *testing.T) {
	provider := &fakeProvider{}
	sessions := &fakeSessions{}
	engine := setupAuthTest(provider, sessions)

	w, env := postJSON(t, engine, "/api/v1/auth/signup", gin.H{
		"full_name":        "Asha Rao",
		"email":            "asha@example.com",
		"password":         "secret123",
		"confirm_password": "secret124",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgPasswordMismatch, env.Message)
	assert.Zero(t, provider.signUpCalls)
}

func TestSignUp_Success(t *testing.T) {
	provider := &fakeProvider{session: testSession()}
	sessions := &fakeSessions{}
	engine := setupAuthTest(provider, sessions)

	w, env := postJSON(t, engine, "/api/v1/auth/signup", gin.H{
		"full_name":        "Asha Rao",
		"email":            "asha@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, provider.signUpCalls)
	require.NotNil(t, env.Data)
	assert.Equal(t, "asha@example.com", env.Data.Email)

	require.NotNil(t, sessions.written)
	assert.Equal(t, "access-token", sessions.written.AccessToken)
	require.NotNil(t, sessions.signedIn)
	assert.Equal(t, "user-1", sessions.signedIn.ID)
}

func TestSignUp_NotifierReceivesNewUser(t *testing.T) {
	provider := &fakeProvider{session: testSession()}
	sessions := &fakeSessions{}
	gin.SetMode(gin.TestMode)

	controller := NewController(provider, sessions)
	notifier := &captureSignupNotifier{}
	controller.SetNotifier(notifier)

	engine := gin.New()
	api := engine.Group("/api/v1")
	SetupAuthRoutes(api, controller)

	postJSON(t, engine, "/api/v1/auth/signup", gin.H{
		"full_name":        "Asha Rao",
		"email":            "asha@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
	})

	require.NotNil(t, notifier.user)
	assert.Equal(t, "user-1", notifier.user.ID)
}

func TestSignUp_ProviderMessageSurfacesVerbatim(t *testing.T) {
	provider := &fakeProvider{err: &ProviderError{Message: "Signups not allowed for this instance"}}
	sessions := &fakeSessions{}
	engine := setupAuthTest(provider, sessions)

	w, env := postJSON(t, engine, "/api/v1/auth/signup", gin.H{
		"full_name":        "Asha Rao",
		"email":            "asha@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Signups not allowed for this instance", env.Message)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	provider := &fakeProvider{err: ErrUserAlreadyExists}
	sessions := &fakeSessions{}
	engine := setupAuthTest(provider, sessions)

	w, _ := postJSON(t, engine, "/api/v1/auth/signup", gin.H{
		"full_name":        "Asha Rao",
		"email":            "asha@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_Success(t *testing.T) {
	provider := &fakeProvider{session: testSession()}
	sessions := &fakeSessions{}
	engine := setupAuthTest(provider, sessions)

	w, env := postJSON(t, engine, "/api/v1/auth/login", gin.H{
		"email":    "asha@example.com",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, provider.signInCalls)
	require.NotNil(t, env.Data)
	assert.Equal(t, "user-1", env.Data.ID)
	require.NotNil(t, sessions.written)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	provider := &fakeProvider{err: ErrInvalidCredentials}
	sessions := &fakeSessions{}
	engine := setupAuthTest(provider, sessions)

	w, env := postJSON(t, engine, "/api/v1/auth/login", gin.H{
		"email":    "asha@example.com",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid login credentials", env.Message)
	assert.Nil(t, sessions.written)
}

func TestLogin_NoLocalPasswordRules(t *testing.T) {
	// Sign-in sends whatever was typed; only sign-up validates locally.
	provider := &fakeProvider{err: ErrInvalidCredentials}
	sessions := &fakeSessions{}
	engine := setupAuthTest(provider, sessions)

	w, _ := postJSON(t, engine, "/api/v1/auth/login", gin.H{
		"email":    "asha@example.com",
		"password": "abc",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 1, provider.signInCalls)
}

func TestLogout_ClearsSessionEvenWhenProviderFails(t *testing.T) {
	provider := &fakeProvider{signOutErr: errors.New("provider unreachable")}
	sessions := &fakeSessions{accessToken: "access-token"}
	engine := setupAuthTest(provider, sessions)

	w, _ := postJSON(t, engine, "/api/v1/auth/logout", gin.H{})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, sessions.cleared)
	assert.True(t, sessions.signedOut)
}

func TestMe(t *testing.T) {
	provider := &fakeProvider{}
	sessions := &fakeSessions{current: &User{ID: "user-1", Email: "asha@example.com"}}
	engine := setupAuthTest(provider, sessions)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	sessions.current = nil
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type captureSignupNotifier struct {
	user *User
}

func (n *captureSignupNotifier) UserSignedUp(ctx context.Context, user *User) {
	n.user = user
}
