package mockapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/salesdash/salesdash/models"
)

const accountKey = "account"

// login handles POST /api/Auth/login
func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request data",
			"errors":  []string{err.Error()},
		})
		return
	}

	var account Account
	if err := s.db.Where("username = ?", req.Username).First(&account).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = account.ID
	s.mu.Unlock()

	log.WithField("username", account.Username).Info("Login successful")

	c.JSON(http.StatusOK, models.LoginResponse{
		Token: token,
		User:  userFromAccount(&account),
	})
}

// requireAuth resolves the bearer token into an account or aborts with 401
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid token"})
		return
	}

	s.mu.RLock()
	accountID, exists := s.sessions[token]
	s.mu.RUnlock()
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid token"})
		return
	}

	var account Account
	if err := s.db.First(&account, accountID).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid token"})
		return
	}

	c.Set(accountKey, &account)
	c.Set("token", token)
	c.Next()
}

func currentAccount(c *gin.Context) *Account {
	value, _ := c.Get(accountKey)
	account, _ := value.(*Account)
	return account
}

// logout handles POST /api/auth/logout
func (s *Server) logout(c *gin.Context) {
	token := c.GetString("token")

	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()

	c.Status(http.StatusNoContent)
}

// currentUser handles GET /api/auth/me
func (s *Server) currentUser(c *gin.Context) {
	c.JSON(http.StatusOK, userFromAccount(currentAccount(c)))
}

// refreshToken handles POST /api/auth/refresh. The old token stops working
// the moment the new one is issued.
func (s *Server) refreshToken(c *gin.Context) {
	oldToken := c.GetString("token")
	account := currentAccount(c)

	newToken := uuid.New().String()
	s.mu.Lock()
	delete(s.sessions, oldToken)
	s.sessions[newToken] = account.ID
	s.mu.Unlock()

	c.JSON(http.StatusOK, models.RefreshResponse{Token: newToken})
}

// RevokeToken invalidates a session token directly (for tests simulating
// expiry server-side).
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
