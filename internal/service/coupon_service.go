package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/VastraLabs/vastra_api/internal/cache"
	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/repository"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// CouponService evaluates and applies coupons against a user's cart.
type CouponService struct {
	couponRepo    *repository.CouponRepository
	cartRepo      *repository.CartRepository
	checkoutCache *cache.CheckoutCache
}

// NewCouponService constructs a CouponService.
func NewCouponService(couponRepo *repository.CouponRepository, cartRepo *repository.CartRepository, checkoutCache *cache.CheckoutCache) *CouponService {
	return &CouponService{
		couponRepo:    couponRepo,
		cartRepo:      cartRepo,
		checkoutCache: checkoutCache,
	}
}

// CouponDiscount computes the discount a coupon yields on an order value.
// PERCENT coupons are rounded and capped at max_discount when set; FLAT
// coupons never exceed the order value itself.
func CouponDiscount(c *models.Coupon, orderValue float64) float64 {
	var discount float64
	switch c.Type {
	case models.CouponTypePercent:
		discount = utils.Round2(orderValue * c.Value / 100)
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case models.CouponTypeFlat:
		discount = c.Value
		if discount > orderValue {
			discount = orderValue
		}
	}
	return utils.Round2(discount)
}

// validateCoupon runs the shared eligibility checks: active, inside the
// date window, minimum order met, global usage cap and per-user cap.
func (s *CouponService) validateCoupon(c *models.Coupon, userID int, orderValue float64) error {
	now := time.Now()
	if !c.IsActive || c.IsDeleted || now.Before(c.StartDate) || now.After(c.EndDate) {
		return utils.ErrCouponInvalid
	}
	if orderValue < c.MinOrder {
		return utils.ErrCouponMinOrder
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return utils.ErrCouponLimitReached
	}
	if c.PerUserLimit > 0 {
		used, err := s.couponRepo.CountUserUsage(s.couponRepo.DB(), userID, c.Code)
		if err != nil {
			return err
		}
		if used >= c.PerUserLimit {
			return utils.ErrCouponLimitReached
		}
	}
	return nil
}

// EligibleCoupon is a coupon listing entry for the checkout page.
type EligibleCoupon struct {
	Code        string            `json:"code"`
	Type        models.CouponType `json:"type"`
	Value       float64           `json:"value"`
	MaxDiscount float64           `json:"max_discount,omitempty"`
	MinOrder    float64           `json:"min_order"`
	Discount    float64           `json:"discount"`
	EndDate     time.Time         `json:"end_date"`
}

// ListEligible returns the coupons the user could apply to the current
// cart value, with the discount each would yield.
func (s *CouponService) ListEligible(userID int, orderValue float64) ([]EligibleCoupon, error) {
	coupons, err := s.couponRepo.FindApplicable(orderValue)
	if err != nil {
		return nil, err
	}

	eligible := make([]EligibleCoupon, 0, len(coupons))
	for i := range coupons {
		c := &coupons[i]
		if err := s.validateCoupon(c, userID, orderValue); err != nil {
			continue
		}
		eligible = append(eligible, EligibleCoupon{
			Code:        c.Code,
			Type:        c.Type,
			Value:       c.Value,
			MaxDiscount: c.MaxDiscount,
			MinOrder:    c.MinOrder,
			Discount:    CouponDiscount(c, orderValue),
			EndDate:     c.EndDate,
		})
	}
	return eligible, nil
}

// Apply validates a coupon against the user's current cart and stashes the
// pending application in redis. Nothing is persisted until checkout; the
// usage counter only moves when an order is placed.
func (s *CouponService) Apply(ctx context.Context, userID int, code string) (*models.AppliedCoupon, *Totals, error) {
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, utils.ErrCouponNotFound
		}
		return nil, nil, err
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.cartRepo.GetItems(cart.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, utils.ErrEmptyCart
	}

	base := ComputeTotals(items, 0)
	if err := s.validateCoupon(coupon, userID, base.Subtotal); err != nil {
		return nil, nil, err
	}

	applied := &models.AppliedCoupon{
		CouponID:       coupon.ID,
		Code:           coupon.Code,
		Type:           coupon.Type,
		Value:          coupon.Value,
		DiscountAmount: CouponDiscount(coupon, base.Subtotal),
		OrderValue:     base.Subtotal,
		PerUserLimit:   coupon.PerUserLimit,
		AppliedAt:      time.Now(),
	}
	if err := s.checkoutCache.SetAppliedCoupon(ctx, userID, applied); err != nil {
		return nil, nil, err
	}

	log.Info().Int("user_id", userID).Str("coupon", coupon.Code).
		Float64("discount", applied.DiscountAmount).Msg("Coupon applied")

	totals := ComputeTotals(items, applied.DiscountAmount)
	return applied, &totals, nil
}

// Remove clears the pending coupon for the user, if any.
func (s *CouponService) Remove(ctx context.Context, userID int) error {
	return s.checkoutCache.ClearAppliedCoupon(ctx, userID)
}

// CreateCoupon adds a coupon after sanity-checking its shape.
func (s *CouponService) CreateCoupon(c *models.Coupon) error {
	if err := validateCouponShape(c); err != nil {
		return err
	}
	return s.couponRepo.Create(c)
}

// UpdateCoupon edits a coupon.
func (s *CouponService) UpdateCoupon(c *models.Coupon) error {
	if err := validateCouponShape(c); err != nil {
		return err
	}
	return s.couponRepo.Update(c)
}

// ArchiveCoupon soft-deletes a coupon. Orders that snapshotted it keep
// their discount.
func (s *CouponService) ArchiveCoupon(id int) error {
	return s.couponRepo.Archive(id)
}

// ListAll returns every coupon for the admin table.
func (s *CouponService) ListAll() ([]models.Coupon, error) {
	return s.couponRepo.GetAll()
}

func validateCouponShape(c *models.Coupon) error {
	if c.Code == "" || c.Value <= 0 {
		return utils.ErrCouponInvalid
	}
	if c.Type == models.CouponTypePercent && c.Value > 100 {
		return utils.ErrCouponInvalid
	}
	if c.Type != models.CouponTypePercent && c.Type != models.CouponTypeFlat {
		return utils.ErrCouponInvalid
	}
	if !c.EndDate.After(c.StartDate) {
		return utils.ErrCouponInvalid
	}
	return nil
}

// Pending returns the coupon currently applied in redis, revalidated
// against the live cart. A coupon that no longer holds fails the caller
// rather than silently charging full price; the stale application is
// cleared so the next attempt starts clean.
func (s *CouponService) Pending(ctx context.Context, userID int) (*models.AppliedCoupon, error) {
	applied, err := s.checkoutCache.GetAppliedCoupon(ctx, userID)
	if err != nil || applied == nil {
		return nil, err
	}

	coupon, err := s.couponRepo.GetByCode(applied.Code)
	if err != nil {
		_ = s.checkoutCache.ClearAppliedCoupon(ctx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCouponInvalid
		}
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.GetItems(cart.ID)
	if err != nil {
		return nil, err
	}
	base := ComputeTotals(items, 0)
	if err := s.validateCoupon(coupon, userID, base.Subtotal); err != nil {
		_ = s.checkoutCache.ClearAppliedCoupon(ctx, userID)
		return nil, err
	}

	// Recompute against the live cart value in case lines changed.
	applied.DiscountAmount = CouponDiscount(coupon, base.Subtotal)
	applied.OrderValue = base.Subtotal
	applied.PerUserLimit = coupon.PerUserLimit
	return applied, nil
}
