package services

import (
	"sync"

	"github.com/salesdash/salesdash/models"
)

// MockAuthService is a mock implementation of AuthAPI for testing
type MockAuthService struct {
	LoginFunc        func(username, password string) (*models.LoginResponse, error)
	LogoutFunc       func() error
	CurrentUserFunc  func() (*models.User, error)
	RefreshTokenFunc func() (string, error)

	mu          sync.Mutex
	logoutCalls int
}

// NewMockAuthService creates a new mock auth gateway
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Login delegates to LoginFunc
func (m *MockAuthService) Login(username, password string) (*models.LoginResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(username, password)
	}
	return &models.LoginResponse{
		Token: "mock-token",
		User:  models.User{ID: "u1", Email: username, Name: username, Role: "admin"},
	}, nil
}

// Logout records the call and delegates to LogoutFunc
func (m *MockAuthService) Logout() error {
	m.mu.Lock()
	m.logoutCalls++
	m.mu.Unlock()

	if m.LogoutFunc != nil {
		return m.LogoutFunc()
	}
	return nil
}

// CurrentUser delegates to CurrentUserFunc
func (m *MockAuthService) CurrentUser() (*models.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc()
	}
	return &models.User{ID: "u1", Email: "user@example.com", Name: "User", Role: "admin"}, nil
}

// RefreshToken delegates to RefreshTokenFunc
func (m *MockAuthService) RefreshToken() (string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc()
	}
	return "mock-refreshed-token", nil
}

// LogoutCallCount returns how many times Logout was called
func (m *MockAuthService) LogoutCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logoutCalls
}
