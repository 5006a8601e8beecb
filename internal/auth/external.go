package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// externalProvider talks to a hosted GoTrue-style auth service. The base URL
// and the public (anon) API key come from configuration; both are required.
type externalProvider struct {
	baseURL string
	anonKey string
	client  *http.Client
}

// NewExternalProvider returns a Provider backed by the hosted auth service.
func NewExternalProvider(baseURL, anonKey string) Provider {
	return &externalProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Wire formats of the hosted service.

type externalSession struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         externalUser `json:"user"`
}

type externalUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FullName  string `json:"full_name"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user_metadata"`
}

type externalError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e *externalError) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Msg != "":
		return e.Msg
	case e.ErrorDescription != "":
		return e.ErrorDescription
	default:
		return "authentication failed"
	}
}

func (p *externalProvider) SignUp(ctx context.Context, email, password string, profile Profile) (*Session, error) {
	payload := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     profile,
	}

	var session externalSession
	if err := p.post(ctx, "/auth/v1/signup", "", payload, &session); err != nil {
		return nil, err
	}
	return session.toSession(), nil
}

func (p *externalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var session externalSession
	if err := p.post(ctx, "/auth/v1/token?grant_type=password", "", payload, &session); err != nil {
		return nil, err
	}
	return session.toSession(), nil
}

func (p *externalProvider) SignOut(ctx context.Context, accessToken string) error {
	return p.post(ctx, "/auth/v1/logout", accessToken, struct{}{}, nil)
}

func (p *externalProvider) GetUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	p.setHeaders(req, accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.Body)
	}

	var user externalUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("auth provider response decode failed: %w", err)
	}
	u := user.toUser()
	return &u, nil
}

func (p *externalProvider) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	payload := map[string]string{"refresh_token": refreshToken}

	var session externalSession
	if err := p.post(ctx, "/auth/v1/token?grant_type=refresh_token", "", payload, &session); err != nil {
		return nil, err
	}
	return session.toSession(), nil
}

func (p *externalProvider) post(ctx context.Context, path, accessToken string, payload, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	p.setHeaders(req, accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			return ErrInvalidToken
		}
		return decodeError(resp.Body)
	}

	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (p *externalProvider) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("apikey", p.anonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+p.anonKey)
	}
}

// decodeError turns a provider error body into a ProviderError whose message
// is surfaced verbatim on the form.
func decodeError(body io.Reader) error {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil {
		return &ProviderError{Message: "authentication failed"}
	}

	var extErr externalError
	if err := json.Unmarshal(raw, &extErr); err != nil {
		return &ProviderError{Message: strings.TrimSpace(string(raw))}
	}
	return &ProviderError{Message: extErr.text()}
}

func (s *externalSession) toSession() *Session {
	return &Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		User:         s.User.toUser(),
	}
}

func (u *externalUser) toUser() User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.UserMetadata.FullName,
		AvatarURL: u.UserMetadata.AvatarURL,
	}
}
