package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubAuthServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var body struct {
			Email    string  `json:"email"`
			Password string  `json:"password"`
			Data     Profile `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body.Email == "taken@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
			return
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
			"user": map[string]interface{}{
				"id":    "uid-1",
				"email": body.Email,
				"user_metadata": map[string]string{
					"full_name": body.Data.FullName,
				},
			},
		})
	})

	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("grant_type") {
		case "password":
			var body struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body.Password != "secret123" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				"expires_in":    3600,
				"user":          map[string]interface{}{"id": "uid-1", "email": body.Email},
			})
		case "refresh_token":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token":  "access-2",
				"refresh_token": "refresh-2",
				"expires_in":    3600,
				"user":          map[string]interface{}{"id": "uid-1", "email": "asha@example.com"},
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	mux.HandleFunc("/auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "uid-1",
			"email": "asha@example.com",
			"user_metadata": map[string]string{
				"full_name": "Asha Rao",
			},
		})
	})

	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return httptest.NewServer(mux)
}

func TestExternalProvider_SignUp(t *testing.T) {
	srv := stubAuthServer(t)
	defer srv.Close()

	provider := NewExternalProvider(srv.URL, "anon-key")

	session, err := provider.SignUp(context.Background(), "asha@example.com", "secret123", Profile{FullName: "Asha Rao"})

	require.NoError(t, err)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "refresh-1", session.RefreshToken)
	assert.Equal(t, int64(3600), session.ExpiresIn)
	assert.Equal(t, "uid-1", session.User.ID)
	assert.Equal(t, "Asha Rao", session.User.FullName)
}

func TestExternalProvider_SignUp_ProviderErrorVerbatim(t *testing.T) {
	srv := stubAuthServer(t)
	defer srv.Close()

	provider := NewExternalProvider(srv.URL, "anon-key")

	_, err := provider.SignUp(context.Background(), "taken@example.com", "secret123", Profile{})

	require.Error(t, err)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "User already registered", provErr.Message)
}

func TestExternalProvider_SignIn(t *testing.T) {
	srv := stubAuthServer(t)
	defer srv.Close()

	provider := NewExternalProvider(srv.URL, "anon-key")

	session, err := provider.SignIn(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "access-1", session.AccessToken)

	_, err = provider.SignIn(context.Background(), "asha@example.com", "wrong")
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "Invalid login credentials", provErr.Message)
}

func TestExternalProvider_GetUser(t *testing.T) {
	srv := stubAuthServer(t)
	defer srv.Close()

	provider := NewExternalProvider(srv.URL, "anon-key")

	user, err := provider.GetUser(context.Background(), "access-1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.ID)
	assert.Equal(t, "Asha Rao", user.FullName)

	_, err = provider.GetUser(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExternalProvider_Refresh(t *testing.T) {
	srv := stubAuthServer(t)
	defer srv.Close()

	provider := NewExternalProvider(srv.URL, "anon-key")

	session, err := provider.Refresh(context.Background(), "refresh-1")

	require.NoError(t, err)
	assert.Equal(t, "access-2", session.AccessToken)
	assert.Equal(t, "refresh-2", session.RefreshToken)
}

func TestExternalProvider_SignOut(t *testing.T) {
	srv := stubAuthServer(t)
	defer srv.Close()

	provider := NewExternalProvider(srv.URL, "anon-key")

	assert.NoError(t, provider.SignOut(context.Background(), "access-1"))
}
