package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"sortmyscene/internal/shared/utils/response"
	"sortmyscene/pkg/logger"
)

// SessionManager is the slice of the session context the auth forms need.
// Declared here, implemented by the session package, to avoid a circular
// dependency.
type SessionManager interface {
	Current(c *gin.Context) (*User, error)
	WriteSession(c *gin.Context, s *Session)
	ClearSession(c *gin.Context)
	AccessToken(c *gin.Context) (string, bool)
	PublishSignedIn(user *User)
	PublishSignedOut()
}

// SignupNotifier receives new-account events. Implemented by the
// notifications service; optional.
type SignupNotifier interface {
	UserSignedUp(ctx context.Context, user *User)
}

type Controller interface {
	SetNotifier(notifier SignupNotifier)
	SignUp(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type controller struct {
	provider  Provider
	sessions  SessionManager
	notifier  SignupNotifier
	validator *validator.Validate
	logger    *logger.Logger
}

func NewController(provider Provider, sessions SessionManager) Controller {
	return &controller{
		provider:  provider,
		sessions:  sessions,
		validator: validator.New(),
		logger:    logger.GetDefault(),
	}
}

// SetNotifier injects the signup notification dependency.
func (ctrl *controller) SetNotifier(notifier SignupNotifier) {
	ctrl.notifier = notifier
}

// SignUp validates the form locally before any provider call: a password
// mismatch or a too-short password never leaves the process.
func (ctrl *controller) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	if req.Password != req.ConfirmPassword {
		response.RespondJSON(c, "error", http.StatusBadRequest, MsgPasswordMismatch, nil, nil)
		return
	}
	if len(req.Password) < MinPasswordLength {
		response.RespondJSON(c, "error", http.StatusBadRequest, MsgPasswordTooShort, nil, nil)
		return
	}

	session, err := ctrl.provider.SignUp(c.Request.Context(), req.Email, req.Password, Profile{FullName: req.FullName})
	if err != nil {
		ctrl.logger.LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
		if errors.Is(err, ErrUserAlreadyExists) {
			response.RespondJSON(c, "error", http.StatusConflict, "User with this email already exists", nil, nil)
			return
		}
		var provErr *ProviderError
		if errors.As(err, &provErr) {
			// Provider messages surface verbatim as the inline form message.
			response.RespondJSON(c, "error", http.StatusBadRequest, provErr.Message, nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to sign up", nil, nil)
		return
	}

	ctrl.sessions.WriteSession(c, session)
	ctrl.sessions.PublishSignedIn(&session.User)
	ctrl.logger.LogAuthSuccess(c.Request.Context(), session.User.ID, "signup")

	if ctrl.notifier != nil {
		ctrl.notifier.UserSignedUp(c.Request.Context(), &session.User)
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Account created successfully", session.User, nil)
}

// Login sends credentials straight to the provider; there is no local
// pre-validation beyond field presence.
func (ctrl *controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	session, err := ctrl.provider.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		ctrl.logger.LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
		if errors.Is(err, ErrInvalidCredentials) {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid login credentials", nil, nil)
			return
		}
		var provErr *ProviderError
		if errors.As(err, &provErr) {
			response.RespondJSON(c, "error", http.StatusUnauthorized, provErr.Message, nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to sign in", nil, nil)
		return
	}

	ctrl.sessions.WriteSession(c, session)
	ctrl.sessions.PublishSignedIn(&session.User)
	ctrl.logger.LogAuthSuccess(c.Request.Context(), session.User.ID, "login")

	response.RespondJSON(c, "success", http.StatusOK, "Signed in successfully", session.User, nil)
}

// Logout ends the session regardless of what the provider says: the cookies
// are cleared even when the remote sign-out fails.
func (ctrl *controller) Logout(c *gin.Context) {
	if token, ok := ctrl.sessions.AccessToken(c); ok {
		if err := ctrl.provider.SignOut(c.Request.Context(), token); err != nil {
			ctrl.logger.WithError(err).Warn("provider sign-out failed")
		}
	}

	ctrl.sessions.ClearSession(c)
	ctrl.sessions.PublishSignedOut()

	response.RespondJSON(c, "success", http.StatusOK, "Signed out successfully", nil, nil)
}

func (ctrl *controller) Me(c *gin.Context) {
	user, err := ctrl.sessions.Current(c)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to resolve session", nil, nil)
		return
	}
	if user == nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Not signed in", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "User retrieved successfully", user, nil)
}
