package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// AdminCouponHandler handles back-office coupon management.
type AdminCouponHandler struct {
	couponService *service.CouponService
}

// NewAdminCouponHandler constructs an AdminCouponHandler.
func NewAdminCouponHandler(couponService *service.CouponService) *AdminCouponHandler {
	return &AdminCouponHandler{couponService: couponService}
}

type couponRequest struct {
	Code         string    `json:"code" binding:"required"`
	Type         string    `json:"type" binding:"required,oneof=PERCENT FLAT"`
	Value        float64   `json:"value" binding:"required,gt=0"`
	MaxDiscount  float64   `json:"maxDiscount"`
	MinOrder     float64   `json:"minOrder"`
	UsageLimit   int       `json:"usageLimit"`
	PerUserLimit int       `json:"perUserLimit"`
	StartDate    time.Time `json:"startDate" binding:"required"`
	EndDate      time.Time `json:"endDate" binding:"required"`
	IsActive     *bool     `json:"isActive"`
}

func (r *couponRequest) toModel() *models.Coupon {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.Coupon{
		Code:         r.Code,
		Type:         models.CouponType(r.Type),
		Value:        r.Value,
		MaxDiscount:  r.MaxDiscount,
		MinOrder:     r.MinOrder,
		UsageLimit:   r.UsageLimit,
		PerUserLimit: r.PerUserLimit,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		IsActive:     active,
	}
}

// ListCoupons handles GET /v1/admin/coupons
func (h *AdminCouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.couponService.ListAll()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load coupons")
		return
	}
	utils.Success(c, 200, "Coupons retrieved", coupons)
}

// CreateCoupon handles POST /v1/admin/coupons
func (h *AdminCouponHandler) CreateCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	coupon := req.toModel()
	if err := h.couponService.CreateCoupon(coupon); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 201, "Coupon created", coupon)
}

// UpdateCoupon handles PUT /v1/admin/coupons/:couponId
func (h *AdminCouponHandler) UpdateCoupon(c *gin.Context) {
	couponID, err := strconv.Atoi(c.Param("couponId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid coupon id")
		return
	}
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	coupon := req.toModel()
	coupon.ID = couponID
	if err := h.couponService.UpdateCoupon(coupon); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Coupon updated", coupon)
}

// ArchiveCoupon handles DELETE /v1/admin/coupons/:couponId
func (h *AdminCouponHandler) ArchiveCoupon(c *gin.Context) {
	couponID, err := strconv.Atoi(c.Param("couponId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid coupon id")
		return
	}

	if err := h.couponService.ArchiveCoupon(couponID); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to archive coupon")
		return
	}
	utils.Success(c, 200, "Coupon archived", nil)
}

func (h *AdminCouponHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrDuplicateCoupon:
		utils.Error(c, 409, "DUPLICATE_COUPON_CODE", "Coupon code already exists")
	case utils.ErrCouponInvalid:
		utils.Error(c, 400, "COUPON_INVALID", "Coupon fields are not valid")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
