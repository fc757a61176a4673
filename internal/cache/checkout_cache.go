package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VastraLabs/vastra_api/internal/models"
)

// PendingGatewayCheckout holds the state between creating a gateway order
// and the client completing payment out-of-band. It is scoped to one
// checkout attempt and expires on its own; nothing here is committed
// until signature verification succeeds.
type PendingGatewayCheckout struct {
	GatewayOrderID string    `json:"gatewayOrderId"`
	OrderID        int       `json:"orderId"`
	UserID         int       `json:"userId"`
	Amount         float64   `json:"amount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CheckoutCache stores per-user checkout-attempt state in Redis: the
// pending applied coupon and the in-flight gateway order. Both are
// TTL-bounded so abandoned checkouts clean themselves up.
type CheckoutCache struct {
	redis      *RedisClient
	couponTTL  time.Duration
	gatewayTTL time.Duration
}

// NewCheckoutCache creates a new CheckoutCache.
func NewCheckoutCache(redis *RedisClient, couponTTL, gatewayTTL time.Duration) *CheckoutCache {
	return &CheckoutCache{
		redis:      redis,
		couponTTL:  couponTTL,
		gatewayTTL: gatewayTTL,
	}
}

func (c *CheckoutCache) couponKey(userID int) string {
	return fmt.Sprintf("checkout:coupon:%d", userID)
}

func (c *CheckoutCache) gatewayKey(gatewayOrderID string) string {
	return fmt.Sprintf("checkout:gateway:%s", gatewayOrderID)
}

// SetAppliedCoupon stores the pending coupon for a user's checkout attempt.
func (c *CheckoutCache) SetAppliedCoupon(ctx context.Context, userID int, applied *models.AppliedCoupon) error {
	data, err := json.Marshal(applied)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, c.couponKey(userID), string(data), c.couponTTL)
}

// GetAppliedCoupon returns the user's pending coupon, or nil if none is set.
func (c *CheckoutCache) GetAppliedCoupon(ctx context.Context, userID int) (*models.AppliedCoupon, error) {
	raw, err := c.redis.Get(ctx, c.couponKey(userID))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var applied models.AppliedCoupon
	if err := json.Unmarshal([]byte(raw), &applied); err != nil {
		return nil, err
	}
	return &applied, nil
}

// ClearAppliedCoupon removes the user's pending coupon.
func (c *CheckoutCache) ClearAppliedCoupon(ctx context.Context, userID int) error {
	return c.redis.Delete(ctx, c.couponKey(userID))
}

// SetPendingGateway stores an in-flight gateway checkout keyed by the
// gateway order id the client will pay against.
func (c *CheckoutCache) SetPendingGateway(ctx context.Context, pending *PendingGatewayCheckout) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, c.gatewayKey(pending.GatewayOrderID), string(data), c.gatewayTTL)
}

// GetPendingGateway returns the in-flight checkout for a gateway order id,
// or nil if it expired or never existed.
func (c *CheckoutCache) GetPendingGateway(ctx context.Context, gatewayOrderID string) (*PendingGatewayCheckout, error) {
	raw, err := c.redis.Get(ctx, c.gatewayKey(gatewayOrderID))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pending PendingGatewayCheckout
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

// ClearPendingGateway removes an in-flight gateway checkout.
func (c *CheckoutCache) ClearPendingGateway(ctx context.Context, gatewayOrderID string) error {
	return c.redis.Delete(ctx, c.gatewayKey(gatewayOrderID))
}
