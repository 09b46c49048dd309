package models

import (
	"time"

	"gorm.io/gorm"
)

// Order status values. Orders move Pending -> Confirmed -> Shipped ->
// Delivered; Cancelled is terminal from any state.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Order represents a customer sales order with its line items
type Order struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CustomerName  string         `gorm:"not null;index" json:"customerName"`
	CustomerEmail string         `gorm:"not null" json:"customerEmail"`
	OrderDate     time.Time      `gorm:"not null;index" json:"orderDate"`
	Status        string         `gorm:"not null;default:'Pending'" json:"status"`
	Total         float64        `gorm:"not null" json:"total"` // sum of detail subtotals, computed server-side
	OrderDetails  []OrderDetail  `gorm:"foreignKey:OrderID" json:"orderDetails"`
	CreatedBy     string         `json:"createdBy"`
	UpdatedBy     *string        `json:"updatedBy,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderDetail represents a single product line item within an order
type OrderDetail struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderID     uint           `gorm:"not null;index" json:"orderId"`
	ProductName string         `gorm:"not null" json:"productName"`
	ProductCode string         `gorm:"not null;index" json:"productCode"`
	Quantity    int            `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice   float64        `gorm:"not null" json:"unitPrice"`
	Subtotal    float64        `gorm:"not null" json:"subtotal"` // quantity * unitPrice, rounded to cents
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderDetail model
func (OrderDetail) TableName() string {
	return "order_details"
}

// OrderDetailInput is a line item as submitted by the client. The server
// computes the subtotal; it is never trusted from the caller.
type OrderDetailInput struct {
	ProductName string  `json:"productName" binding:"required"`
	ProductCode string  `json:"productCode" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gte=1"`
	UnitPrice   float64 `json:"unitPrice" binding:"required,gte=0.01"`
}

// CreateOrderRequest is the body for POST /Orders
type CreateOrderRequest struct {
	CustomerName  string             `json:"customerName" binding:"required"`
	CustomerEmail string             `json:"customerEmail" binding:"required,email"`
	OrderDate     time.Time          `json:"orderDate" binding:"required"`
	Status        string             `json:"status"`
	OrderDetails  []OrderDetailInput `json:"orderDetails" binding:"required,min=1,dive"`
}

// UpdateOrderRequest is the body for PUT /Orders/{id}. The order ID comes
// from the path, never the body.
type UpdateOrderRequest struct {
	CustomerName  string             `json:"customerName" binding:"required"`
	CustomerEmail string             `json:"customerEmail" binding:"required,email"`
	OrderDate     time.Time          `json:"orderDate" binding:"required"`
	Status        string             `json:"status"`
	OrderDetails  []OrderDetailInput `json:"orderDetails" binding:"required,min=1,dive"`
}

// OrderFilters narrows the order list. A zero-valued field means "no
// constraint" and is omitted from the request query string.
type OrderFilters struct {
	CustomerName string `json:"customerName,omitempty"`
	StartDate    string `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate      string `json:"endDate,omitempty"`   // YYYY-MM-DD
	Status       string `json:"status,omitempty"`
	ProductCode  string `json:"productCode,omitempty"`
	PageNumber   int    `json:"pageNumber,omitempty"`
	PageSize     int    `json:"pageSize,omitempty"`
}

// Merge returns a copy of f with every non-zero field of other applied on
// top. Fields left at their zero value in other keep the value from f.
func (f OrderFilters) Merge(other OrderFilters) OrderFilters {
	merged := f
	if other.CustomerName != "" {
		merged.CustomerName = other.CustomerName
	}
	if other.StartDate != "" {
		merged.StartDate = other.StartDate
	}
	if other.EndDate != "" {
		merged.EndDate = other.EndDate
	}
	if other.Status != "" {
		merged.Status = other.Status
	}
	if other.ProductCode != "" {
		merged.ProductCode = other.ProductCode
	}
	if other.PageNumber != 0 {
		merged.PageNumber = other.PageNumber
	}
	if other.PageSize != 0 {
		merged.PageSize = other.PageSize
	}
	return merged
}

// NarrowingEqual reports whether both filters apply the same narrowing
// predicates, ignoring page number and page size.
func (f OrderFilters) NarrowingEqual(other OrderFilters) bool {
	return f.CustomerName == other.CustomerName &&
		f.StartDate == other.StartDate &&
		f.EndDate == other.EndDate &&
		f.Status == other.Status &&
		f.ProductCode == other.ProductCode
}

// PagedResult is the page envelope returned by GET /Orders
type PagedResult struct {
	Items      []Order `json:"items"`
	TotalCount int64   `json:"totalCount"`
	PageNumber int     `json:"pageNumber"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

// Pagination is the page metadata the order store keeps alongside the list.
// It is always replaced wholesale from a server response, never mutated
// locally.
type Pagination struct {
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}
