package store

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/salesdash/salesdash/models"
	"github.com/salesdash/salesdash/services"
)

// TokenHolder is where the auth store pushes the bearer token so that every
// subsequent gateway call carries it. api.Client satisfies it.
type TokenHolder interface {
	SetToken(token string)
	ClearToken()
}

// AuthStore owns the session identity and token. The token lives on the
// injected TokenHolder while the session is active and is cleared together
// with the local state, so a stale token can never leak into a later
// anonymous session.
type AuthStore struct {
	gateway services.AuthAPI
	tokens  TokenHolder
	storage SessionStorage

	mu              sync.RWMutex
	user            *models.User
	token           string
	isAuthenticated bool
	isLoading       bool
}

// NewAuthStore creates an auth store and rehydrates any persisted session,
// pushing its token onto the token holder.
func NewAuthStore(gateway services.AuthAPI, tokens TokenHolder, storage SessionStorage) *AuthStore {
	s := &AuthStore{
		gateway: gateway,
		tokens:  tokens,
		storage: storage,
	}

	session, err := storage.Load()
	if err != nil {
		log.WithError(err).Warn("Failed to load persisted session")
		return s
	}
	if session != nil && session.Token != "" {
		s.user = session.User
		s.token = session.Token
		s.isAuthenticated = session.IsAuthenticated
		tokens.SetToken(session.Token)
	}
	return s
}

// Login authenticates against the backend. On success the user and token
// are stored, the token holder updated and the session persisted. Failures
// are returned unchanged so the caller can branch on APIError.Status (401
// means invalid credentials).
func (s *AuthStore) Login(username, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.gateway.Login(username, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &resp.User
	s.token = resp.Token
	s.isAuthenticated = true
	s.mu.Unlock()

	s.tokens.SetToken(resp.Token)
	s.persist()
	return nil
}

// Logout invalidates the session on the backend on a best-effort basis and
// always clears the local session, token holder and persisted state.
func (s *AuthStore) Logout() {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.gateway.Logout(); err != nil {
		log.WithError(err).Warn("Remote logout failed, continuing with local logout")
	}

	s.clearSession()
}

// CheckAuth validates the held token against the backend. Without a token
// it marks the store unauthenticated immediately; with one it refreshes the
// user profile, treating any failure as an expired session.
func (s *AuthStore) CheckAuth() {
	s.mu.Lock()
	token := s.token
	if token == "" {
		s.isAuthenticated = false
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.gateway.CurrentUser()
	if err != nil {
		log.WithError(err).Debug("Session check failed, clearing session")
		s.clearSession()
		return
	}

	s.mu.Lock()
	s.user = user
	s.isAuthenticated = true
	s.mu.Unlock()
	s.persist()
}

// Refresh rotates the bearer token. On failure the session is torn down the
// same way logout does.
func (s *AuthStore) Refresh() error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return nil
	}

	newToken, err := s.gateway.RefreshToken()
	if err != nil {
		s.clearSession()
		return err
	}

	s.mu.Lock()
	s.token = newToken
	s.mu.Unlock()

	s.tokens.SetToken(newToken)
	s.persist()
	return nil
}

// User returns the authenticated user's profile, or nil
func (s *AuthStore) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token returns the current bearer token, or ""
func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a session is active
func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAuthenticated
}

// IsLoading reports whether an auth operation is in flight
func (s *AuthStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *AuthStore) setLoading(loading bool) {
	s.mu.Lock()
	s.isLoading = loading
	s.mu.Unlock()
}

// persist saves the durable part of the state. isLoading never persists.
func (s *AuthStore) persist() {
	s.mu.RLock()
	session := &models.Session{
		User:            s.user,
		Token:           s.token,
		IsAuthenticated: s.isAuthenticated,
	}
	s.mu.RUnlock()

	if err := s.storage.Save(session); err != nil {
		log.WithError(err).Warn("Failed to persist session")
	}
}

func (s *AuthStore) clearSession() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.isAuthenticated = false
	s.mu.Unlock()

	s.tokens.ClearToken()
	if err := s.storage.Clear(); err != nil {
		log.WithError(err).Warn("Failed to clear persisted session")
	}
}
