package session

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sortmyscene/internal/auth"
	"sortmyscene/internal/shared/config"
)

// Session cookie names. Both are HttpOnly and scoped to the whole site.
const (
	AccessTokenCookie  = "sms_access_token"
	RefreshTokenCookie = "sms_refresh_token"
)

// Manager is the process-wide session context: the header, the route guard
// and the auth forms all resolve the current session through it instead of
// each talking to the provider on their own.
type Manager struct {
	provider    auth.Provider
	config      *config.Config
	broadcaster *Broadcaster
}

func NewManager(provider auth.Provider, cfg *config.Config) *Manager {
	return &Manager{
		provider:    provider,
		config:      cfg,
		broadcaster: NewBroadcaster(),
	}
}

// Broadcaster exposes the change-subscription side of the session context.
func (m *Manager) Broadcaster() *Broadcaster {
	return m.broadcaster
}

// Current resolves the request's session. A missing or unusable session
// yields (nil, nil): a guest is not an error. An expired access token is
// refreshed with the refresh-token cookie first, and the refreshed pair is
// written back onto the response before the lookup proceeds.
func (m *Manager) Current(c *gin.Context) (*auth.User, error) {
	accessToken, err := c.Cookie(AccessTokenCookie)
	if err != nil || accessToken == "" {
		return m.tryRefresh(c)
	}

	user, err := m.provider.GetUser(c.Request.Context(), accessToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) || errors.Is(err, auth.ErrInvalidToken) {
			return m.tryRefresh(c)
		}
		return nil, err
	}
	return user, nil
}

func (m *Manager) tryRefresh(c *gin.Context) (*auth.User, error) {
	refreshToken, err := c.Cookie(RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		return nil, nil
	}

	session, err := m.provider.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) || errors.Is(err, auth.ErrInvalidToken) {
			// Stale refresh token; treat as guest and drop the cookies.
			m.ClearSession(c)
			return nil, nil
		}
		var provErr *auth.ProviderError
		if errors.As(err, &provErr) {
			m.ClearSession(c)
			return nil, nil
		}
		return nil, err
	}

	m.WriteSession(c, session)
	user := session.User
	return &user, nil
}

// WriteSession sets the token-pair cookies on the response.
func (m *Manager) WriteSession(c *gin.Context, s *auth.Session) {
	maxAge := int(m.config.Auth.RefreshExpiresIn.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, s.AccessToken, maxAge, "/", m.config.Auth.CookieDomain, m.config.Auth.CookieSecure, true)
	c.SetCookie(RefreshTokenCookie, s.RefreshToken, maxAge, "/", m.config.Auth.CookieDomain, m.config.Auth.CookieSecure, true)
}

// ClearSession expires both cookies.
func (m *Manager) ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", m.config.Auth.CookieDomain, m.config.Auth.CookieSecure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", m.config.Auth.CookieDomain, m.config.Auth.CookieSecure, true)
}

// AccessToken returns the raw access token cookie, if any.
func (m *Manager) AccessToken(c *gin.Context) (string, bool) {
	token, err := c.Cookie(AccessTokenCookie)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// PublishSignedIn notifies subscribers of a new session.
func (m *Manager) PublishSignedIn(user *auth.User) {
	m.broadcaster.Publish(Change{Type: ChangeSignedIn, User: user})
}

// PublishSignedOut notifies subscribers that the session ended.
func (m *Manager) PublishSignedOut() {
	m.broadcaster.Publish(Change{Type: ChangeSignedOut})
}
