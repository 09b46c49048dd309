// Package mockapi is a development backend implementing the REST surface
// the salesdash client consumes. It exists so the dashboard can be
// developed and tested without the real order service: integration tests
// run it in-process on a sqlite database, and `salesdash mockapi` serves it
// on a port for manual use.
package mockapi

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salesdash/salesdash/metrics"
	"github.com/salesdash/salesdash/models"
)

// Account is a backend login account. It is distinct from models.User,
// which is the wire-level profile the client sees.
type Account struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	Email        string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}

// Server holds the backend state: the database plus the in-memory session
// registry mapping bearer tokens to accounts.
type Server struct {
	db *gorm.DB

	mu       sync.RWMutex
	sessions map[string]uint
}

// New creates a server on top of an already-connected database
func New(db *gorm.DB) *Server {
	return &Server{
		db:       db,
		sessions: make(map[string]uint),
	}
}

// Migrate creates the backend schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Account{}, &models.Order{}, &models.OrderDetail{}); err != nil {
		return fmt.Errorf("failed to migrate mock backend schema: %w", err)
	}
	return nil
}

// CreateAccount adds a login account with a bcrypt-hashed password
func CreateAccount(db *gorm.DB, username, password, name, email, role string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := Account{
		Username:     username,
		PasswordHash: string(hash),
		Name:         name,
		Email:        email,
		Role:         role,
	}
	if err := db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &account, nil
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	router := gin.Default()

	router.Use(metrics.PrometheusMiddleware("mockapi"))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/Auth/login", s.login)

		auth := api.Group("", s.requireAuth)
		{
			auth.POST("/auth/logout", s.logout)
			auth.GET("/auth/me", s.currentUser)
			auth.POST("/auth/refresh", s.refreshToken)

			auth.GET("/Orders", s.listOrders)
			auth.GET("/Orders/:id", s.getOrder)
			auth.POST("/Orders", s.createOrder)
			auth.PUT("/Orders/:id", s.updateOrder)
			auth.DELETE("/Orders/:id", s.deleteOrder)
		}
	}

	return router
}

// userFromAccount maps a backend account to the wire-level user profile
func userFromAccount(account *Account) models.User {
	return models.User{
		ID:    fmt.Sprintf("%d", account.ID),
		Email: account.Email,
		Name:  account.Name,
		Role:  account.Role,
	}
}

// Seed populates a fresh database with a demo account and a handful of
// orders so the dashboard has something to show.
func Seed(db *gorm.DB) error {
	admin, err := CreateAccount(db, "admin", "admin123", "Admin", "admin@salesdash.local", "admin")
	if err != nil {
		return err
	}

	orders := []models.Order{
		{
			CustomerName:  "Acme Corp",
			CustomerEmail: "purchasing@acme.example",
			OrderDate:     time.Now().AddDate(0, 0, -7),
			Status:        models.StatusShipped,
			CreatedBy:     admin.Name,
			OrderDetails: []models.OrderDetail{
				{ProductName: "Widget", ProductCode: "WID-1", Quantity: 4, UnitPrice: 12.50},
				{ProductName: "Gadget", ProductCode: "GAD-2", Quantity: 1, UnitPrice: 99.99},
			},
		},
		{
			CustomerName:  "Globex",
			CustomerEmail: "orders@globex.example",
			OrderDate:     time.Now().AddDate(0, 0, -2),
			Status:        models.StatusPending,
			CreatedBy:     admin.Name,
			OrderDetails: []models.OrderDetail{
				{ProductName: "Sprocket", ProductCode: "SPR-7", Quantity: 10, UnitPrice: 3.25},
			},
		},
	}
	for i := range orders {
		finalizeOrder(&orders[i])
		if err := db.Create(&orders[i]).Error; err != nil {
			return fmt.Errorf("failed to seed order: %w", err)
		}
	}
	return nil
}
