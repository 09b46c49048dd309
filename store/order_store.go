package store

import (
	"fmt"
	"sync"

	"github.com/salesdash/salesdash/models"
	"github.com/salesdash/salesdash/services"
)

// OrderStore owns the canonical in-memory view of orders. Every mutation
// goes through the backend; the orders/pagination/filters triple is only
// ever replaced as a unit from a single successful server response, so the
// list and its page metadata cannot disagree.
//
// One isLoading/error pair is shared by all operations, matching the UI it
// serves (a single spinner and a single banner). Concurrent list fetches
// are fenced with a sequence number: only the latest fetch may write the
// triple, so a slow stale response can never overwrite fresher data.
type OrderStore struct {
	gateway services.OrderAPI

	mu           sync.RWMutex
	orders       []models.Order
	currentOrder *models.Order
	pagination   models.Pagination
	filters      models.OrderFilters
	isLoading    bool
	lastError    string
	fetchSeq     uint64
	subscribers  []func()

	defaultPageSize int
}

// NewOrderStore creates a store backed by the given gateway
func NewOrderStore(gateway services.OrderAPI, defaultPageSize int) *OrderStore {
	if defaultPageSize < 1 {
		defaultPageSize = 10
	}
	return &OrderStore{
		gateway: gateway,
		pagination: models.Pagination{
			PageNumber: 1,
			PageSize:   defaultPageSize,
		},
		defaultPageSize: defaultPageSize,
	}
}

// Subscribe registers a callback invoked after every state change
func (s *OrderStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *OrderStore) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

// FetchOrders merges the given partial filters over the stored ones
// (explicit fields win) and loads the matching page. Changing any narrowing
// field resets the page to 1. On success orders, pagination and filters are
// replaced together from the response; on failure the previous triple stays
// untouched and the error is recorded.
func (s *OrderStore) FetchOrders(partial models.OrderFilters) error {
	s.mu.Lock()
	merged := s.filters.Merge(partial)
	if merged.PageSize == 0 {
		merged.PageSize = s.defaultPageSize
	}
	if !merged.NarrowingEqual(s.filters) {
		merged.PageNumber = 1
	}
	if merged.PageNumber == 0 {
		merged.PageNumber = 1
	}

	s.fetchSeq++
	seq := s.fetchSeq
	s.isLoading = true
	s.lastError = ""
	s.mu.Unlock()
	s.notify()

	result, err := s.gateway.GetOrders(merged)

	s.mu.Lock()
	if seq != s.fetchSeq {
		// A newer fetch has started; this response is stale either way.
		s.mu.Unlock()
		return nil
	}
	s.isLoading = false
	if err != nil {
		s.lastError = fmt.Sprintf("Failed to load orders: %v", err)
		s.mu.Unlock()
		s.notify()
		return err
	}

	merged.PageNumber = result.PageNumber
	merged.PageSize = result.PageSize
	s.orders = result.Items
	s.pagination = models.Pagination{
		PageNumber: result.PageNumber,
		PageSize:   result.PageSize,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
	}
	s.filters = merged
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchOrderByID loads a single order into CurrentOrder. The list and its
// pagination are not touched.
func (s *OrderStore) FetchOrderByID(id uint) error {
	s.setLoading()

	order, err := s.gateway.GetOrderByID(id)

	s.mu.Lock()
	s.isLoading = false
	if err != nil {
		s.lastError = fmt.Sprintf("Failed to load order %d: %v", id, err)
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.currentOrder = order
	s.mu.Unlock()
	s.notify()
	return nil
}

// CreateOrder creates an order and re-fetches the current page. The list is
// never patched locally: whether the new order belongs on the current page
// under the active filters is the server's call.
func (s *OrderStore) CreateOrder(req models.CreateOrderRequest) error {
	s.setLoading()

	if _, err := s.gateway.CreateOrder(req); err != nil {
		s.recordError(fmt.Sprintf("Failed to create order: %v", err))
		return err
	}
	return s.FetchOrders(models.OrderFilters{})
}

// UpdateOrder updates an order and re-fetches the current page
func (s *OrderStore) UpdateOrder(id uint, req models.UpdateOrderRequest) error {
	s.setLoading()

	updated, err := s.gateway.UpdateOrder(id, req)
	if err != nil {
		s.recordError(fmt.Sprintf("Failed to update order %d: %v", id, err))
		return err
	}

	s.mu.Lock()
	if s.currentOrder != nil && s.currentOrder.ID == id {
		s.currentOrder = updated
	}
	s.mu.Unlock()
	return s.FetchOrders(models.OrderFilters{})
}

// DeleteOrder soft-deletes an order and re-fetches the current page
func (s *OrderStore) DeleteOrder(id uint) error {
	s.setLoading()

	if err := s.gateway.DeleteOrder(id); err != nil {
		s.recordError(fmt.Sprintf("Failed to delete order %d: %v", id, err))
		return err
	}

	s.mu.Lock()
	if s.currentOrder != nil && s.currentOrder.ID == id {
		s.currentOrder = nil
	}
	s.mu.Unlock()
	return s.FetchOrders(models.OrderFilters{})
}

// SetFilters replaces the narrowing filters wholesale and resets the page
// to 1. It does not fetch: changing filter text requires an explicit apply
// (a FetchOrders call), while SetPage/SetPageSize always refetch.
func (s *OrderStore) SetFilters(filters models.OrderFilters) {
	s.mu.Lock()
	pageSize := s.filters.PageSize
	if filters.PageSize != 0 {
		pageSize = filters.PageSize
	}
	s.filters = models.OrderFilters{
		CustomerName: filters.CustomerName,
		StartDate:    filters.StartDate,
		EndDate:      filters.EndDate,
		Status:       filters.Status,
		ProductCode:  filters.ProductCode,
		PageNumber:   1,
		PageSize:     pageSize,
	}
	s.mu.Unlock()
	s.notify()
}

// SetPage moves to the given page and refetches immediately
func (s *OrderStore) SetPage(pageNumber int) error {
	s.mu.Lock()
	s.filters.PageNumber = pageNumber
	s.mu.Unlock()
	return s.FetchOrders(models.OrderFilters{})
}

// SetPageSize changes the page size, resets to page 1 and refetches
func (s *OrderStore) SetPageSize(pageSize int) error {
	s.mu.Lock()
	s.filters.PageSize = pageSize
	s.filters.PageNumber = 1
	s.mu.Unlock()
	return s.FetchOrders(models.OrderFilters{})
}

// SetCurrentOrder sets the order shown in detail views
func (s *OrderStore) SetCurrentOrder(order *models.Order) {
	s.mu.Lock()
	s.currentOrder = order
	s.mu.Unlock()
	s.notify()
}

// ClearError clears only the error field
func (s *OrderStore) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
	s.notify()
}

// Reset restores all fields to their initial defaults. Used on logout.
func (s *OrderStore) Reset() {
	s.mu.Lock()
	s.orders = nil
	s.currentOrder = nil
	s.pagination = models.Pagination{PageNumber: 1, PageSize: s.defaultPageSize}
	s.filters = models.OrderFilters{}
	s.isLoading = false
	s.lastError = ""
	s.fetchSeq++ // invalidates any in-flight fetch
	s.mu.Unlock()
	s.notify()
}

// Orders returns a copy of the current page of orders
func (s *OrderStore) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]models.Order, len(s.orders))
	copy(orders, s.orders)
	return orders
}

// CurrentOrder returns the order loaded by FetchOrderByID, or nil
func (s *OrderStore) CurrentOrder() *models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentOrder
}

// Pagination returns the page metadata of the last successful fetch
func (s *OrderStore) Pagination() models.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// Filters returns the currently active filters
func (s *OrderStore) Filters() models.OrderFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// IsLoading reports whether any operation is in flight
func (s *OrderStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// LastError returns the recorded user-facing error message, or ""
func (s *OrderStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *OrderStore) setLoading() {
	s.mu.Lock()
	s.isLoading = true
	s.lastError = ""
	s.mu.Unlock()
	s.notify()
}

func (s *OrderStore) recordError(message string) {
	s.mu.Lock()
	s.isLoading = false
	s.lastError = message
	s.mu.Unlock()
	s.notify()
}
