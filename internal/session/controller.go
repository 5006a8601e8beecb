package session

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"sortmyscene/internal/auth"
	"sortmyscene/internal/shared/utils/response"
)

// SessionResponse is the header's one-shot session fetch.
type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	User          *auth.User `json:"user,omitempty"`
}

type Controller struct {
	manager *Manager
}

func NewController(manager *Manager) *Controller {
	return &Controller{manager: manager}
}

// GetSession returns the current session or the guest state. The header
// renders its account menu from this.
func (ctrl *Controller) GetSession(c *gin.Context) {
	user, err := ctrl.manager.Current(c)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to resolve session", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Session retrieved successfully", SessionResponse{
		Authenticated: user != nil,
		User:          user,
	}, nil)
}

// WatchSession streams auth-state changes as server-sent events for the
// remaining lifetime of the connection. The subscription is released when the
// client disconnects.
func (ctrl *Controller) WatchSession(c *gin.Context) {
	changes, unsubscribe := ctrl.manager.Broadcaster().Subscribe()
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case change, ok := <-changes:
			if !ok {
				return false
			}
			c.SSEvent("auth", change)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func SetupSessionRoutes(router *gin.RouterGroup, controller *Controller) {
	sessions := router.Group("/session")
	{
		sessions.GET("", controller.GetSession)       // GET /api/v1/session
		sessions.GET("/watch", controller.WatchSession) // GET /api/v1/session/watch (SSE)
	}
}
