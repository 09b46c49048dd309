package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesdash/salesdash/models"
)

// TestOrderRow is a unit test for the list view row formatting
func TestOrderRow(t *testing.T) {
	updatedBy := "Bob"
	order := models.Order{
		ID:           42,
		CustomerName: "Acme Corp",
		OrderDate:    time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
		Status:       models.StatusShipped,
		Total:        149.99,
		CreatedBy:    "Admin",
		UpdatedBy:    &updatedBy,
		OrderDetails: []models.OrderDetail{
			{ProductName: "Widget", Quantity: 2},
			{ProductName: "Gadget", Quantity: 1},
		},
	}

	row := orderRow(order)

	assert.Equal(t, []string{"42", "Acme Corp", "2024-06-15", "Shipped", "2", "149.99", "Admin"}, row)
}

// TestPaginationLine tests the footer below the order table
func TestPaginationLine(t *testing.T) {
	line := paginationLine(models.Pagination{
		PageNumber: 2,
		PageSize:   10,
		TotalCount: 25,
		TotalPages: 3,
	})

	assert.Equal(t, "Page 2 of 3 (25 orders, page size 10)", line)
}

// TestFormatMoney tests money is always rendered with two decimals
func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "10.00", formatMoney(10))
	assert.Equal(t, "10.50", formatMoney(10.5))
	assert.Equal(t, "0.99", formatMoney(0.99))
}

// TestReadJSONFile tests loading an order body from disk
func TestReadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.json")
	body := `{
		"customerName": "Acme Corp",
		"customerEmail": "purchasing@acme.example",
		"orderDate": "2024-06-15T00:00:00Z",
		"orderDetails": [
			{"productName": "Widget", "productCode": "WID-1", "quantity": 2, "unitPrice": 5.0}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	var req models.CreateOrderRequest
	require.NoError(t, readJSONFile(path, &req))

	assert.Equal(t, "Acme Corp", req.CustomerName)
	require.Len(t, req.OrderDetails, 1)
	assert.Equal(t, 2, req.OrderDetails[0].Quantity)

	// Missing files are an error, not a silent empty order
	assert.Error(t, readJSONFile(filepath.Join(t.TempDir(), "missing.json"), &req))
}
