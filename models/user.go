package models

// User is the authenticated user's profile as returned by the backend
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginRequest is the body for POST /Auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RefreshResponse is returned by POST /auth/refresh
type RefreshResponse struct {
	Token string `json:"token"`
}

// Session is the durable part of the auth state. It is what the session
// storage persists across process restarts; loading flags never persist.
type Session struct {
	User            *User  `json:"user"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}
