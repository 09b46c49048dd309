package mockapi

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salesdash/salesdash/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	dateLayout      = "2006-01-02"
)

// round2 rounds to cents. This is the backend's rounding rule; the client
// never recomputes totals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// finalizeOrder computes every detail subtotal and the order total
func finalizeOrder(order *models.Order) {
	total := 0.0
	for i := range order.OrderDetails {
		detail := &order.OrderDetails[i]
		detail.Subtotal = round2(float64(detail.Quantity) * detail.UnitPrice)
		total += detail.Subtotal
	}
	order.Total = round2(total)
}

func validStatus(status string) bool {
	for _, s := range models.OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// listOrders handles GET /api/Orders
func (s *Server) listOrders(c *gin.Context) {
	pageNumber := queryInt(c, "pageNumber", 1)
	if pageNumber < 1 {
		pageNumber = 1
	}
	pageSize := queryInt(c, "pageSize", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := s.db.Model(&models.Order{})
	if v := c.Query("customerName"); v != "" {
		query = query.Where("customer_name LIKE ?", "%"+v+"%")
	}
	if v := c.Query("startDate"); v != "" {
		start, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid startDate, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("order_date >= ?", start)
	}
	if v := c.Query("endDate"); v != "" {
		end, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid endDate, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("order_date < ?", end.AddDate(0, 0, 1))
	}
	if v := c.Query("status"); v != "" {
		query = query.Where("status = ?", v)
	}
	if v := c.Query("productCode"); v != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM order_details WHERE order_details.order_id = orders.id AND order_details.product_code = ? AND order_details.deleted_at IS NULL)",
			v,
		)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to count orders"})
		return
	}

	var orders []models.Order
	err := query.
		Preload("OrderDetails").
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((pageNumber - 1) * pageSize).
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to query orders"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, models.PagedResult{
		Items:      orders,
		TotalCount: totalCount,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(pageSize))),
	})
}

// getOrder handles GET /api/Orders/:id
func (s *Server) getOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order id"})
		return
	}

	var order models.Order
	if err := s.db.Preload("OrderDetails").First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// createOrder handles POST /api/Orders
func (s *Server) createOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  []string{err.Error()},
		})
		return
	}
	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !validStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  []string{"status must be one of Pending, Confirmed, Shipped, Delivered, Cancelled"},
		})
		return
	}

	account := currentAccount(c)
	order := models.Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		OrderDate:     req.OrderDate,
		Status:        status,
		CreatedBy:     account.Name,
		OrderDetails:  detailsFromInputs(req.OrderDetails),
	}
	finalizeOrder(&order)

	if err := s.db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// updateOrder handles PUT /api/Orders/:id. Line items are replaced
// wholesale with the submitted list.
func (s *Server) updateOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order id"})
		return
	}

	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}

	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  []string{err.Error()},
		})
		return
	}
	status := req.Status
	if status == "" {
		status = order.Status
	}
	if !validStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  []string{"status must be one of Pending, Confirmed, Shipped, Delivered, Cancelled"},
		})
		return
	}

	details := detailsFromInputs(req.OrderDetails)
	for i := range details {
		details[i].OrderID = order.ID
	}
	scratch := models.Order{OrderDetails: details}
	finalizeOrder(&scratch)

	account := currentAccount(c)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&scratch.OrderDetails).Error; err != nil {
			return err
		}
		return tx.Model(&order).Updates(map[string]interface{}{
			"customer_name":  req.CustomerName,
			"customer_email": req.CustomerEmail,
			"order_date":     req.OrderDate,
			"status":         status,
			"total":          scratch.Total,
			"updated_by":     account.Name,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
		return
	}

	var updated models.Order
	if err := s.db.Preload("OrderDetails").First(&updated, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load order details"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// deleteOrder handles DELETE /api/Orders/:id. Deletion is soft: the row
// keeps its data but stops appearing in list and get responses.
func (s *Server) deleteOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order id"})
		return
	}

	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete order"})
		return
	}
	c.Status(http.StatusNoContent)
}

func detailsFromInputs(inputs []models.OrderDetailInput) []models.OrderDetail {
	details := make([]models.OrderDetail, len(inputs))
	for i, input := range inputs {
		details[i] = models.OrderDetail{
			ProductName: input.ProductName,
			ProductCode: input.ProductCode,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
		}
	}
	return details
}

func queryInt(c *gin.Context, name string, defaultValue int) int {
	value := c.Query(name)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
