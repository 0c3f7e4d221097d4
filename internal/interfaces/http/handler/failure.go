package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appfulfillment "github.com/retailpos/backend/internal/application/fulfillment"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// FailureHandler exposes the fulfillment failure log for back-office review
type FailureHandler struct {
	BaseHandler
	failureService *appfulfillment.FailureService
}

// NewFailureHandler creates a new failure handler
func NewFailureHandler(failureService *appfulfillment.FailureService) *FailureHandler {
	return &FailureHandler{
		failureService: failureService,
	}
}

// List retrieves fulfillment failures for the shop
// GET /api/v1/fulfillment/failures
func (h *FailureHandler) List(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.BadRequest(c, "Shop identification required")
		return
	}

	var filter appfulfillment.FailureListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.failureService.List(c.Request.Context(), shopID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Failures, result.Total, result.Page, result.PageSize)
}

// ListByOrder retrieves failures recorded for one order
// GET /api/v1/fulfillment/failures/order/:id
func (h *FailureHandler) ListByOrder(c *gin.Context) {
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

	failures, err := h.failureService.ListByOrder(c.Request.Context(), shopID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, failures)
}
