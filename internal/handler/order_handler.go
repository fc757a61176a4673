package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// OrderHandler handles the customer's order endpoints.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrders handles GET /v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 10)

	orders, total, err := h.orderService.List(c.GetInt("user_id"), page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load orders")
		return
	}
	utils.SuccessWithPagination(c, 200, "Orders retrieved", orders, page, limit, total)
}

// GetOrder handles GET /v1/orders/:orderId
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid order id")
		return
	}

	order, err := h.orderService.Get(c.GetInt("user_id"), orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Order retrieved", order)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder handles POST /v1/orders/:orderId/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid order id")
		return
	}
	var req reasonRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.orderService.Cancel(c.Request.Context(), c.GetInt("user_id"), orderID, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Order cancelled", order)
}

// CancelItem handles POST /v1/orders/:orderId/items/:itemId/cancel
func (h *OrderHandler) CancelItem(c *gin.Context) {
	orderID, itemID, ok := orderItemIDs(c)
	if !ok {
		return
	}
	var req reasonRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.orderService.CancelItem(c.Request.Context(), c.GetInt("user_id"), orderID, itemID, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Item cancelled", order)
}

// RequestReturn handles POST /v1/orders/:orderId/items/:itemId/return
func (h *OrderHandler) RequestReturn(c *gin.Context) {
	orderID, itemID, ok := orderItemIDs(c)
	if !ok {
		return
	}
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Reason == "" {
		utils.Error(c, 400, "MISSING_FIELD", "Return reason is required")
		return
	}

	order, err := h.orderService.RequestReturn(c.Request.Context(), c.GetInt("user_id"), orderID, itemID, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Return requested", order)
}

func orderItemIDs(c *gin.Context) (int, int, bool) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid order id")
		return 0, 0, false
	}
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid item id")
		return 0, 0, false
	}
	return orderID, itemID, true
}

func (h *OrderHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrOrderNotFound:
		utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
	case utils.ErrItemNotFound:
		utils.Error(c, 404, "ITEM_NOT_FOUND", "Order item not found")
	case utils.ErrIllegalTransition:
		utils.Error(c, 409, "ILLEGAL_TRANSITION", "Action not allowed in the current status")
	case utils.ErrReturnWindow:
		utils.Error(c, 400, "RETURN_WINDOW_EXPIRED", "Return window has expired")
	case utils.ErrReturnExists:
		utils.Error(c, 409, "RETURN_ALREADY_REQUESTED", "Return already requested for this item")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
