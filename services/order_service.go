package services

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/salesdash/salesdash/api"
	"github.com/salesdash/salesdash/models"
)

// OrderAPI defines the interface for the remote order resource
type OrderAPI interface {
	GetOrders(filters models.OrderFilters) (*models.PagedResult, error)
	GetOrderByID(id uint) (*models.Order, error)
	CreateOrder(req models.CreateOrderRequest) (*models.Order, error)
	UpdateOrder(id uint, req models.UpdateOrderRequest) (*models.Order, error)
	DeleteOrder(id uint) error
}

// OrderService translates order operations into HTTP calls against /Orders.
// It is a pure translation layer: no validation, no error mapping of its
// own; APIErrors from the transport pass through unchanged.
type OrderService struct {
	client *api.Client
}

// NewOrderService creates an order gateway on top of the given client
func NewOrderService(client *api.Client) *OrderService {
	return &OrderService{client: client}
}

// GetOrders fetches one page of orders matching the filters
func (s *OrderService) GetOrders(filters models.OrderFilters) (*models.PagedResult, error) {
	endpoint := "/Orders"
	if query := encodeOrderFilters(filters); query != "" {
		endpoint += "?" + query
	}

	var result models.PagedResult
	if err := s.client.Get(endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetOrderByID fetches a single order
func (s *OrderService) GetOrderByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.client.Get(fmt.Sprintf("/Orders/%d", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder creates a new order and returns the persisted record
func (s *OrderService) CreateOrder(req models.CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := s.client.Post("/Orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder replaces an existing order and returns the persisted record
func (s *OrderService) UpdateOrder(id uint, req models.UpdateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := s.client.Put(fmt.Sprintf("/Orders/%d", id), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder soft-deletes an order. After it succeeds the record is no
// longer returned by GetOrders or GetOrderByID.
func (s *OrderService) DeleteOrder(id uint) error {
	return s.client.Delete(fmt.Sprintf("/Orders/%d", id), nil)
}

// encodeOrderFilters serializes every set filter field as a query
// parameter. Zero-valued fields are omitted entirely.
func encodeOrderFilters(filters models.OrderFilters) string {
	params := url.Values{}

	if filters.PageNumber != 0 {
		params.Set("pageNumber", strconv.Itoa(filters.PageNumber))
	}
	if filters.PageSize != 0 {
		params.Set("pageSize", strconv.Itoa(filters.PageSize))
	}
	if filters.CustomerName != "" {
		params.Set("customerName", filters.CustomerName)
	}
	if filters.StartDate != "" {
		params.Set("startDate", filters.StartDate)
	}
	if filters.EndDate != "" {
		params.Set("endDate", filters.EndDate)
	}
	if filters.Status != "" {
		params.Set("status", filters.Status)
	}
	if filters.ProductCode != "" {
		params.Set("productCode", filters.ProductCode)
	}

	return params.Encode()
}
