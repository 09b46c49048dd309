package services

import (
	"sync"

	"github.com/salesdash/salesdash/models"
)

// MockOrderService is a mock implementation of OrderAPI for testing. Each
// operation delegates to its corresponding Func field when set and records
// the calls it receives.
type MockOrderService struct {
	GetOrdersFunc    func(filters models.OrderFilters) (*models.PagedResult, error)
	GetOrderByIDFunc func(id uint) (*models.Order, error)
	CreateOrderFunc  func(req models.CreateOrderRequest) (*models.Order, error)
	UpdateOrderFunc  func(id uint, req models.UpdateOrderRequest) (*models.Order, error)
	DeleteOrderFunc  func(id uint) error

	mu             sync.Mutex
	getOrdersCalls []models.OrderFilters
}

// NewMockOrderService creates a new mock order gateway
func NewMockOrderService() *MockOrderService {
	return &MockOrderService{}
}

// GetOrders records the filters and delegates to GetOrdersFunc. Without an
// override it returns an empty first page.
func (m *MockOrderService) GetOrders(filters models.OrderFilters) (*models.PagedResult, error) {
	m.mu.Lock()
	m.getOrdersCalls = append(m.getOrdersCalls, filters)
	m.mu.Unlock()

	if m.GetOrdersFunc != nil {
		return m.GetOrdersFunc(filters)
	}
	return &models.PagedResult{
		Items:      []models.Order{},
		PageNumber: 1,
		PageSize:   filters.PageSize,
	}, nil
}

// GetOrderByID delegates to GetOrderByIDFunc
func (m *MockOrderService) GetOrderByID(id uint) (*models.Order, error) {
	if m.GetOrderByIDFunc != nil {
		return m.GetOrderByIDFunc(id)
	}
	return &models.Order{ID: id}, nil
}

// CreateOrder delegates to CreateOrderFunc
func (m *MockOrderService) CreateOrder(req models.CreateOrderRequest) (*models.Order, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(req)
	}
	return &models.Order{ID: 1, CustomerName: req.CustomerName}, nil
}

// UpdateOrder delegates to UpdateOrderFunc
func (m *MockOrderService) UpdateOrder(id uint, req models.UpdateOrderRequest) (*models.Order, error) {
	if m.UpdateOrderFunc != nil {
		return m.UpdateOrderFunc(id, req)
	}
	return &models.Order{ID: id, CustomerName: req.CustomerName}, nil
}

// DeleteOrder delegates to DeleteOrderFunc
func (m *MockOrderService) DeleteOrder(id uint) error {
	if m.DeleteOrderFunc != nil {
		return m.DeleteOrderFunc(id)
	}
	return nil
}

// GetOrdersCalls returns a copy of every filter set passed to GetOrders
func (m *MockOrderService) GetOrdersCalls() []models.OrderFilters {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]models.OrderFilters, len(m.getOrdersCalls))
	copy(calls, m.getOrdersCalls)
	return calls
}

// GetOrdersCallCount returns how many times GetOrders was called
func (m *MockOrderService) GetOrdersCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.getOrdersCalls)
}
