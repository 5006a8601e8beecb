package auth

import "context"

// Provider is the external auth service contract this application consumes.
// The hosted provider implements it over HTTP; the local provider implements
// it against the users table for self-contained deployments.
type Provider interface {
	SignUp(ctx context.Context, email, password string, profile Profile) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*User, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
}
