package mockapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/salesdash/salesdash/models"
)

// setupServer creates a server with a fresh in-memory database and one
// known account
func setupServer(t *testing.T) (*Server, *gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Should open in-memory database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	_, err = CreateAccount(db, "admin", "admin123", "Admin", "admin@salesdash.local", "admin")
	require.NoError(t, err)

	server := New(db)
	return server, server.Router(), db
}

// loginAs performs a login request and returns the bearer token
func loginAs(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()

	body, _ := json.Marshal(models.LoginRequest{Username: username, Password: password})
	req, _ := http.NewRequest("POST", "/api/Auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "Login should succeed")

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func authedRequest(method, path, token string, body []byte) *http.Request {
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// TestLoginRejectsBadCredentials tests the 401 contract for wrong passwords
// and unknown accounts
func TestLoginRejectsBadCredentials(t *testing.T) {
	_, router, _ := setupServer(t)

	for _, creds := range []models.LoginRequest{
		{Username: "admin", Password: "wrong"},
		{Username: "nobody", Password: "admin123"},
	} {
		body, _ := json.Marshal(creds)
		req, _ := http.NewRequest("POST", "/api/Auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid username or password", resp["message"],
			"Message must not reveal which part was wrong")
	}
}

// TestOrdersRequireAuthentication tests that order routes reject missing
// and unknown tokens
func TestOrdersRequireAuthentication(t *testing.T) {
	_, router, _ := setupServer(t)

	req, _ := http.NewRequest("GET", "/api/Orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "No token")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/Orders", "made-up-token", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "Unknown token")
}

// TestCreateOrderComputesSubtotals tests the server-side money math
func TestCreateOrderComputesSubtotals(t *testing.T) {
	_, router, _ := setupServer(t)
	token := loginAs(t, router, "admin", "admin123")

	body, _ := json.Marshal(models.CreateOrderRequest{
		CustomerName:  "Acme Corp",
		CustomerEmail: "purchasing@acme.example",
		OrderDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		OrderDetails: []models.OrderDetailInput{
			{ProductName: "Widget", ProductCode: "WID-1", Quantity: 3, UnitPrice: 19.99},
		},
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("POST", "/api/Orders", token, body))

	require.Equal(t, http.StatusCreated, w.Code, "Body: %s", w.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	require.Len(t, order.OrderDetails, 1)
	assert.Equal(t, 59.97, order.OrderDetails[0].Subtotal)
	assert.Equal(t, 59.97, order.Total)
	assert.Equal(t, models.StatusPending, order.Status, "Status defaults to Pending")
	assert.Equal(t, "Admin", order.CreatedBy)
}

// TestCreateOrderValidation tests the 400 payload shape for bad bodies
func TestCreateOrderValidation(t *testing.T) {
	_, router, _ := setupServer(t)
	token := loginAs(t, router, "admin", "admin123")

	tests := []struct {
		name string
		body string
	}{
		{"missing customer email", `{"customerName":"Acme","orderDate":"2024-06-01T00:00:00Z","orderDetails":[{"productName":"W","productCode":"W-1","quantity":1,"unitPrice":1}]}`},
		{"empty line items", `{"customerName":"Acme","customerEmail":"a@b.example","orderDate":"2024-06-01T00:00:00Z","orderDetails":[]}`},
		{"zero quantity", `{"customerName":"Acme","customerEmail":"a@b.example","orderDate":"2024-06-01T00:00:00Z","orderDetails":[{"productName":"W","productCode":"W-1","quantity":0,"unitPrice":1}]}`},
		{"unknown status", `{"customerName":"Acme","customerEmail":"a@b.example","orderDate":"2024-06-01T00:00:00Z","status":"Lost","orderDetails":[{"productName":"W","productCode":"W-1","quantity":1,"unitPrice":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest("POST", "/api/Orders", token, []byte(tt.body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Message string   `json:"message"`
				Errors  []string `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Validation failed", resp.Message)
			assert.NotEmpty(t, resp.Errors)
		})
	}
}

// TestDeleteOrderIsSoft tests that deleted orders disappear from the API
// but keep their row in the database
func TestDeleteOrderIsSoft(t *testing.T) {
	_, router, db := setupServer(t)
	token := loginAs(t, router, "admin", "admin123")

	order := models.Order{
		CustomerName:  "Acme Corp",
		CustomerEmail: "purchasing@acme.example",
		OrderDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:        models.StatusPending,
		OrderDetails: []models.OrderDetail{
			{ProductName: "Widget", ProductCode: "WID-1", Quantity: 1, UnitPrice: 5.00, Subtotal: 5.00},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("DELETE", fmt.Sprintf("/api/Orders/%d", order.ID), token, nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	// Gone from the API
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", fmt.Sprintf("/api/Orders/%d", order.ID), token, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Still in the database, soft-deleted
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Order{}).Where("id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestRefreshInvalidatesOldToken tests token rotation on refresh
func TestRefreshInvalidatesOldToken(t *testing.T) {
	_, router, _ := setupServer(t)
	oldToken := loginAs(t, router, "admin", "admin123")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("POST", "/api/auth/refresh", oldToken, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEqual(t, oldToken, resp.Token)

	// The old token stops working
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/auth/me", oldToken, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The new one works
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/auth/me", resp.Token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestSeed tests the demo data loads and is served back paged
func TestSeed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	require.NoError(t, Seed(db))

	router := New(db).Router()
	token := loginAs(t, router, "admin", "admin123")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/Orders", token, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var page models.PagedResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.TotalCount)
	require.Len(t, page.Items, 2)
	for _, order := range page.Items {
		assert.NotZero(t, order.Total, "Seeded totals are computed")
	}
}
