package services

import (
	"github.com/salesdash/salesdash/api"
	"github.com/salesdash/salesdash/models"
)

// AuthAPI defines the interface for the remote authentication endpoints
type AuthAPI interface {
	Login(username, password string) (*models.LoginResponse, error)
	Logout() error
	CurrentUser() (*models.User, error)
	RefreshToken() (string, error)
}

// AuthService translates auth operations into HTTP calls. Like the order
// gateway it adds no error translation; callers branch on APIError.Status.
type AuthService struct {
	client *api.Client
}

// NewAuthService creates an auth gateway on top of the given client
func NewAuthService(client *api.Client) *AuthService {
	return &AuthService{client: client}
}

// Login exchanges credentials for a bearer token and user profile
func (s *AuthService) Login(username, password string) (*models.LoginResponse, error) {
	req := models.LoginRequest{Username: username, Password: password}

	var resp models.LoginResponse
	if err := s.client.Post("/Auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the current session on the backend
func (s *AuthService) Logout() error {
	return s.client.Post("/auth/logout", nil, nil)
}

// CurrentUser fetches the profile behind the current bearer token
func (s *AuthService) CurrentUser() (*models.User, error) {
	var user models.User
	if err := s.client.Get("/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshToken rotates the bearer token and returns the new one
func (s *AuthService) RefreshToken() (string, error) {
	var resp models.RefreshResponse
	if err := s.client.Post("/auth/refresh", nil, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
