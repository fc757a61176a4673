package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/repository"
	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// AdminOrderHandler handles back-office order management.
type AdminOrderHandler struct {
	orderService *service.OrderService
}

// NewAdminOrderHandler constructs an AdminOrderHandler.
func NewAdminOrderHandler(orderService *service.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orderService: orderService}
}

// minRejectReasonLen is the shortest acceptable return rejection reason.
const minRejectReasonLen = 3

// ListOrders handles GET /v1/admin/orders
func (h *AdminOrderHandler) ListOrders(c *gin.Context) {
	filter := &repository.AdminOrderFilter{
		Page:  parseIntQuery(c, "page", 1),
		Limit: parseIntQuery(c, "limit", 20),
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("paymentMethod"); v != "" {
		filter.PaymentMethod = &v
	}
	if v := c.Query("reference"); v != "" {
		filter.Reference = &v
	}
	if v := c.Query("startDate"); v != "" {
		filter.StartDate = &v
	}
	if v := c.Query("endDate"); v != "" {
		filter.EndDate = &v
	}

	orders, total, err := h.orderService.ListAdmin(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load orders")
		return
	}
	utils.SuccessWithPagination(c, 200, "Orders retrieved", orders, filter.Page, filter.Limit, total)
}

// GetOrder handles GET /v1/admin/orders/:orderId
func (h *AdminOrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid order id")
		return
	}

	order, err := h.orderService.GetAdmin(orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Order retrieved", order)
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateStatus handles PATCH /v1/admin/orders/:orderId/status
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid order id")
		return
	}
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Status is required")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, models.OrderStatus(req.Status), req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Order status updated", order)
}

// UpdateItemStatus handles PATCH /v1/admin/orders/:orderId/items/:itemId/status
func (h *AdminOrderHandler) UpdateItemStatus(c *gin.Context) {
	orderID, itemID, ok := orderItemIDs(c)
	if !ok {
		return
	}
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Status is required")
		return
	}

	order, err := h.orderService.UpdateItemStatus(c.Request.Context(), orderID, itemID, models.OrderStatus(req.Status), req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Item status updated", order)
}

// ApproveReturn handles POST /v1/admin/orders/:orderId/items/:itemId/return/approve
func (h *AdminOrderHandler) ApproveReturn(c *gin.Context) {
	orderID, itemID, ok := orderItemIDs(c)
	if !ok {
		return
	}

	order, err := h.orderService.ApproveReturn(c.Request.Context(), orderID, itemID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Return approved", order)
}

// RejectReturn handles POST /v1/admin/orders/:orderId/items/:itemId/return/reject
func (h *AdminOrderHandler) RejectReturn(c *gin.Context) {
	orderID, itemID, ok := orderItemIDs(c)
	if !ok {
		return
	}
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(strings.TrimSpace(req.Reason)) < minRejectReasonLen {
		utils.Error(c, 400, "MISSING_FIELD", "Rejection reason of at least 3 characters is required")
		return
	}

	order, err := h.orderService.RejectReturn(c.Request.Context(), orderID, itemID, strings.TrimSpace(req.Reason))
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Return rejected", order)
}

// GetStats handles GET /v1/admin/orders/stats
func (h *AdminOrderHandler) GetStats(c *gin.Context) {
	var startDate, endDate *string
	if v := c.Query("startDate"); v != "" {
		startDate = &v
	}
	if v := c.Query("endDate"); v != "" {
		endDate = &v
	}

	stats, err := h.orderService.Stats(startDate, endDate)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load stats")
		return
	}
	utils.Success(c, 200, "Stats retrieved", stats)
}

func (h *AdminOrderHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrOrderNotFound:
		utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
	case utils.ErrItemNotFound:
		utils.Error(c, 404, "ITEM_NOT_FOUND", "Order item not found")
	case utils.ErrIllegalTransition:
		utils.Error(c, 409, "ILLEGAL_TRANSITION", "Status change not allowed")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
