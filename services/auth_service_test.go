package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesdash/salesdash/api"
	"github.com/salesdash/salesdash/models"
)

func TestLogin_PostsCredentials(t *testing.T) {
	var gotPath string
	var gotBody models.LoginRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token": "tok-123", "user": {"id": "u1", "email": "a@b.c", "name": "Ada", "role": "admin"}}`))
	}))
	defer server.Close()

	service := NewAuthService(api.NewClient(server.URL, 2*time.Second))
	resp, err := service.Login("ada", "secret")

	require.NoError(t, err)
	assert.Equal(t, "/Auth/login", gotPath)
	assert.Equal(t, "ada", gotBody.Username)
	assert.Equal(t, "secret", gotBody.Password)
	assert.Equal(t, "tok-123", resp.Token)
	assert.Equal(t, "Ada", resp.User.Name)
}

func TestLogin_InvalidCredentialsSurfaceAs401(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Invalid username or password"}`))
	}))
	defer server.Close()

	service := NewAuthService(api.NewClient(server.URL, 2*time.Second))
	_, err := service.Login("ada", "wrong")

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid username or password", apiErr.Message)
}

func TestAuthService_EndpointPaths(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/me":
			w.Write([]byte(`{"id": "u1", "email": "a@b.c", "name": "Ada", "role": "admin"}`))
		case "/auth/refresh":
			w.Write([]byte(`{"token": "tok-456"}`))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	service := NewAuthService(api.NewClient(server.URL, 2*time.Second))

	user, err := service.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/auth/me", gotPath)
	assert.Equal(t, "u1", user.ID)

	token, err := service.RefreshToken()
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/auth/refresh", gotPath)
	assert.Equal(t, "tok-456", token)

	require.NoError(t, service.Logout())
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/auth/logout", gotPath)
}
