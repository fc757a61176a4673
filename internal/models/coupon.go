package models

import "time"

// CouponType enumerates the supported discount types.
type CouponType string

const (
	CouponTypePercent CouponType = "PERCENT"
	CouponTypeFlat    CouponType = "FLAT"
)

// Coupon is a promotional discount code. Codes are stored canonically
// uppercase. UsageLimit and PerUserLimit of 0 mean unlimited.
type Coupon struct {
	ID           int        `db:"id" json:"id"`
	Code         string     `db:"code" json:"code"`
	Type         CouponType `db:"type" json:"type"`
	Value        float64    `db:"value" json:"value"`
	MaxDiscount  float64    `db:"max_discount" json:"maxDiscount"`
	MinOrder     float64    `db:"min_order" json:"minOrder"`
	UsageLimit   int        `db:"usage_limit" json:"usageLimit"`
	PerUserLimit int        `db:"per_user_limit" json:"perUserLimit"`
	UsedCount    int        `db:"used_count" json:"usedCount"`
	StartDate    time.Time  `db:"start_date" json:"startDate"`
	EndDate      time.Time  `db:"end_date" json:"endDate"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	IsDeleted    bool       `db:"is_deleted" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// AppliedCoupon is the checkout-scoped result of applying a coupon to a
// cart value. It is pending state only: usage is not counted until an
// order is actually placed with it.
type AppliedCoupon struct {
	CouponID       int        `json:"couponId"`
	Code           string     `json:"code"`
	Type           CouponType `json:"type"`
	Value          float64    `json:"value"`
	DiscountAmount float64    `json:"discountAmount"`
	OrderValue     float64    `json:"orderValue"`
	PerUserLimit   int        `json:"perUserLimit"`
	AppliedAt      time.Time  `json:"appliedAt"`
}
