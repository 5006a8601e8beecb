package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortmyscene/internal/auth"
	"sortmyscene/internal/session"
	"sortmyscene/internal/shared/config"
)

type guardProvider struct {
	users map[string]*auth.User
	err   error
}

func (p *guardProvider) SignUp(ctx context.Context, email, password string, profile auth.Profile) (*auth.Session, error) {
	return nil, auth.ErrInvalidCredentials
}

func (p *guardProvider) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	return nil, auth.ErrInvalidCredentials
}

func (p *guardProvider) SignOut(ctx context.Context, accessToken string) error { return nil }

func (p *guardProvider) GetUser(ctx context.Context, accessToken string) (*auth.User, error) {
	if p.err != nil {
		return nil, p.err
	}
	if user, ok := p.users[accessToken]; ok {
		return user, nil
	}
	return nil, auth.ErrInvalidToken
}

func (p *guardProvider) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	return nil, auth.ErrInvalidToken
}

func guardTestEngine(provider auth.Provider, cfg GuardConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	appConfig := &config.Config{
		Auth: config.AuthConfig{RefreshExpiresIn: 24 * time.Hour},
	}
	sessions := session.NewManager(provider, appConfig)

	engine := gin.New()
	engine.Use(RouteGuard(sessions, cfg))

	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	engine.GET("/", ok)
	engine.GET("/login", ok)
	engine.GET("/signup", ok)
	engine.GET("/forgot-password", ok)
	engine.GET("/events", ok)
	engine.GET("/events/:id", ok)
	engine.GET("/health", ok)
	engine.GET("/assets/app.js", ok)
	engine.GET("/logo.png", ok)
	engine.GET("/api/v1/auth/login", ok)
	return engine
}

func get(engine *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouteGuard_RedirectsGuestWithTarget(t *testing.T) {
	engine := guardTestEngine(&guardProvider{}, GuardConfig{})

	w := get(engine, "/events")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect=%2Fevents", w.Header().Get("Location"))
}

func TestRouteGuard_RedirectEscapesNestedPaths(t *testing.T) {
	engine := guardTestEngine(&guardProvider{}, GuardConfig{})

	w := get(engine, "/events/water-lemon-festival")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect=%2Fevents%2Fwater-lemon-festival", w.Header().Get("Location"))
}

func TestRouteGuard_PublicPathsPassThrough(t *testing.T) {
	engine := guardTestEngine(&guardProvider{}, GuardConfig{})

	for _, path := range []string{"/login", "/signup", "/forgot-password"} {
		w := get(engine, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouteGuard_SkipsAssetsAndHealth(t *testing.T) {
	engine := guardTestEngine(&guardProvider{}, GuardConfig{})

	for _, path := range []string{"/health", "/assets/app.js", "/logo.png"} {
		w := get(engine, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouteGuard_ExtraPublicPrefixes(t *testing.T) {
	engine := guardTestEngine(&guardProvider{}, GuardConfig{
		ExtraPublicPrefixes: []string{"/api/v1/auth"},
	})

	w := get(engine, "/api/v1/auth/login")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouteGuard_AuthenticatedRequestPasses(t *testing.T) {
	provider := &guardProvider{
		users: map[string]*auth.User{
			"access-1": {ID: "user-1", Email: "asha@example.com"},
		},
	}
	engine := guardTestEngine(provider, GuardConfig{})

	w := get(engine, "/events", &http.Cookie{Name: session.AccessTokenCookie, Value: "access-1"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouteGuard_ProviderOutageDoesNotLetRequestsThrough(t *testing.T) {
	provider := &guardProvider{err: context.DeadlineExceeded}
	engine := guardTestEngine(provider, GuardConfig{})

	w := get(engine, "/events", &http.Cookie{Name: session.AccessTokenCookie, Value: "access-1"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
