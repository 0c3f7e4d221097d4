package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appordering "github.com/retailpos/backend/internal/application/ordering"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order HTTP requests. Submission responds as soon as
// the order and its event are committed; fulfillment happens asynchronously.
type OrderHandler struct {
	BaseHandler
	orderService *appordering.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *appordering.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Submit records a completed sale
// POST /api/v1/orders
func (h *OrderHandler) Submit(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.BadRequest(c, "Shop identification required")
		return
	}

	var req appordering.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.orderService.Submit(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves an order by ID
// GET /api/v1/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.BadRequest(c, "Shop identification required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), shopID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByOrderNumber retrieves an order by its number
// GET /api/v1/orders/number/:number
func (h *OrderHandler) GetByOrderNumber(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.BadRequest(c, "Shop identification required")
		return
	}

	orderNumber := c.Param("number")
	if orderNumber == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	resp, err := h.orderService.GetByOrderNumber(c.Request.Context(), shopID, orderNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves orders with filtering and pagination
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.BadRequest(c, "Shop identification required")
		return
	}

	var filter appordering.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	responses, total, err := h.orderService.List(c.Request.Context(), shopID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, responses, total, page, pageSize)
}
