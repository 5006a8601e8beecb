package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

// User is the auth provider's record of an authenticated account. This
// application observes it; the provider owns it.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Session is the provider-issued token pair plus the user it belongs to.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         User   `json:"user"`
}

// Profile carries the optional metadata sent with sign-up.
type Profile struct {
	FullName string `json:"full_name"`
}

// ProviderError is an error message returned by the auth provider. It is
// surfaced verbatim as the inline form message.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// SignUpRequest is the sign-up form payload. ConfirmPassword is validated
// locally against Password before any provider call.
type SignUpRequest struct {
	FullName        string `json:"full_name" validate:"required,min=2,max=255"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// LoginRequest is the sign-in form payload. Credentials go straight to the
// provider; only presence is checked locally.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Local validation messages, shown inline before any network call is made.
const (
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 6 characters"
)

// MinPasswordLength is the sign-up form's local minimum.
const MinPasswordLength = 6
