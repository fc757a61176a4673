package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// CheckoutHandler handles checkout and payment endpoints.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

type placeOrderRequest struct {
	AddressID     int    `json:"addressId" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=COD WALLET RAZORPAY"`
}

// PlaceOrder handles POST /v1/checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	result, err := h.checkoutService.PlaceOrder(
		c.Request.Context(),
		c.GetInt("user_id"),
		req.AddressID,
		models.PaymentMethod(req.PaymentMethod),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	message := "Order placed"
	if result.Payment != nil {
		message = "Awaiting payment"
	}
	utils.Success(c, 201, message, result)
}

type verifyPaymentRequest struct {
	GatewayOrderID string `json:"gatewayOrderId" binding:"required"`
	PaymentID      string `json:"paymentId" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

// VerifyPayment handles POST /v1/checkout/verify
func (h *CheckoutHandler) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	order, err := h.checkoutService.VerifyPayment(
		c.Request.Context(),
		c.GetInt("user_id"),
		req.GatewayOrderID,
		req.PaymentID,
		req.Signature,
	)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Payment verified", order)
}

// RetryPayment handles POST /v1/orders/:orderId/retry-payment
func (h *CheckoutHandler) RetryPayment(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid order id")
		return
	}

	result, err := h.checkoutService.RetryPayment(c.Request.Context(), c.GetInt("user_id"), orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Awaiting payment", result)
}

func (h *CheckoutHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrInsufficientStock) || errors.Is(err, utils.ErrStockUnavailable) {
		stockError(c, 409, "STOCK_UNAVAILABLE", err)
		return
	}
	switch err {
	case utils.ErrEmptyCart:
		utils.Error(c, 400, "EMPTY_CART", "Cart is empty")
	case utils.ErrUnavailableItem:
		utils.Error(c, 409, "UNAVAILABLE_ITEM", "An item in the cart is no longer available")
	case utils.ErrAddressNotFound:
		utils.Error(c, 404, "ADDRESS_NOT_FOUND", "Shipping address not found")
	case utils.ErrInsufficientFunds:
		utils.Error(c, 402, "INSUFFICIENT_FUNDS", "Wallet balance too low")
	case utils.ErrCouponLimitReached:
		utils.Error(c, 400, "COUPON_LIMIT_REACHED", "Coupon usage limit reached")
	case utils.ErrCouponInvalid:
		utils.Error(c, 400, "COUPON_INVALID", "Applied coupon is no longer valid")
	case utils.ErrCouponMinOrder:
		utils.Error(c, 400, "COUPON_MIN_ORDER_NOT_MET", "Cart no longer meets the coupon minimum")
	case utils.ErrInvalidPayment:
		utils.Error(c, 400, "INVALID_PAYMENT_METHOD", "Payment method not valid for this order")
	case utils.ErrOrderNotFound:
		utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
	case utils.ErrSignatureMismatch:
		utils.Error(c, 400, "SIGNATURE_MISMATCH", "Payment signature verification failed")
	case utils.ErrGatewayUnavailable:
		utils.Error(c, 502, "GATEWAY_UNAVAILABLE", "Payment gateway is unavailable")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
