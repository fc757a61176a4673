package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// CouponHandler handles storefront coupon endpoints.
type CouponHandler struct {
	couponService *service.CouponService
	cartService   *service.CartService
}

// NewCouponHandler constructs a CouponHandler.
func NewCouponHandler(couponService *service.CouponService, cartService *service.CartService) *CouponHandler {
	return &CouponHandler{couponService: couponService, cartService: cartService}
}

// ListEligible handles GET /v1/coupons
func (h *CouponHandler) ListEligible(c *gin.Context) {
	userID := c.GetInt("user_id")

	view, err := h.cartService.Get(userID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load cart")
		return
	}

	coupons, err := h.couponService.ListEligible(userID, view.Totals.Subtotal)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load coupons")
		return
	}
	utils.Success(c, 200, "Coupons retrieved", coupons)
}

// Apply handles POST /v1/coupons/apply
func (h *CouponHandler) Apply(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	applied, totals, err := h.couponService.Apply(c.Request.Context(), c.GetInt("user_id"), req.Code)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Coupon applied", gin.H{"coupon": applied, "totals": totals})
}

// Remove handles DELETE /v1/coupons/apply
func (h *CouponHandler) Remove(c *gin.Context) {
	if err := h.couponService.Remove(c.Request.Context(), c.GetInt("user_id")); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to remove coupon")
		return
	}
	utils.Success(c, 200, "Coupon removed", nil)
}

func (h *CouponHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrCouponNotFound:
		utils.Error(c, 404, "COUPON_NOT_FOUND", "Coupon not found")
	case utils.ErrCouponInvalid:
		utils.Error(c, 400, "COUPON_INVALID", "Coupon is not valid")
	case utils.ErrCouponMinOrder:
		utils.Error(c, 400, "COUPON_MIN_ORDER_NOT_MET", "Order value below coupon minimum")
	case utils.ErrCouponLimitReached:
		utils.Error(c, 400, "COUPON_LIMIT_REACHED", "Coupon usage limit reached")
	case utils.ErrEmptyCart:
		utils.Error(c, 400, "EMPTY_CART", "Cart is empty")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
