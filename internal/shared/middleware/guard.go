package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"sortmyscene/internal/session"
	"sortmyscene/pkg/logger"
)

// Paths reachable without a session, exact or as a prefix of a sub-path.
var publicPrefixes = []string{
	"/login",
	"/signup",
	"/forgot-password",
	"/auth",
}

// Asset paths and image extensions the guard never touches.
var (
	skipPrefixes = []string{
		"/static/",
		"/assets/",
		"/health",
		"/ping",
		"/status",
	}
	skipSuffixes = []string{
		".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp",
	}
)

// GuardConfig tunes the route guard for the deployment.
type GuardConfig struct {
	// ExtraPublicPrefixes extends the public list, e.g. with the API's own
	// auth and session endpoints.
	ExtraPublicPrefixes []string
	// LoginPath is where unauthenticated requests are sent.
	LoginPath string
}

// RouteGuard redirects unauthenticated requests for protected paths to the
// login page, carrying the originally requested path as the redirect target.
// It runs once per request before any handler; session-cookie refresh happens
// inside the session lookup as a precondition of the check.
func RouteGuard(sessions *session.Manager, cfg GuardConfig) gin.HandlerFunc {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}

	appLogger := logger.GetDefault()

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if skipGuard(path) || isPublic(path, cfg.ExtraPublicPrefixes) {
			c.Next()
			return
		}

		user, err := sessions.Current(c)
		if err != nil {
			// The provider being unreachable must not let a request through.
			appLogger.LogHTTPError(c, err, http.StatusServiceUnavailable)
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}

		if user == nil {
			appLogger.LogGuardRedirect(c.Request.Context(), path, c.ClientIP())
			c.Redirect(http.StatusFound, loginPath+"?redirect="+url.QueryEscape(path))
			c.Abort()
			return
		}

		c.Next()
	}
}

func skipGuard(path string) bool {
	if path == "/favicon.ico" {
		return true
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	lower := strings.ToLower(path)
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func isPublic(path string, extra []string) bool {
	for _, prefix := range publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	for _, prefix := range extra {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
