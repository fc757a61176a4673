package utils

import (
	"errors"
	"fmt"
)

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrUnavailableItem    = errors.New("UNAVAILABLE_ITEM")
	ErrInsufficientStock  = errors.New("INSUFFICIENT_STOCK")
	ErrQuantityLimit      = errors.New("QUANTITY_LIMIT_EXCEEDED")
	ErrEmptyCart          = errors.New("EMPTY_CART")
	ErrAddressNotFound    = errors.New("ADDRESS_NOT_FOUND")
	ErrWalletNotFound     = errors.New("WALLET_NOT_FOUND")
	ErrInsufficientFunds  = errors.New("INSUFFICIENT_FUNDS")
	ErrStockUnavailable   = errors.New("STOCK_UNAVAILABLE")
	ErrCouponInvalid      = errors.New("COUPON_INVALID")
	ErrCouponLimitReached = errors.New("COUPON_LIMIT_REACHED")
	ErrCouponMinOrder     = errors.New("COUPON_MIN_ORDER_NOT_MET")
	ErrDuplicateCoupon    = errors.New("DUPLICATE_COUPON_CODE")
	ErrOrderNotFound      = errors.New("ORDER_NOT_FOUND")
	ErrItemNotFound       = errors.New("ITEM_NOT_FOUND")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrVariantNotFound    = errors.New("VARIANT_NOT_FOUND")
	ErrCouponNotFound     = errors.New("COUPON_NOT_FOUND")
	ErrIllegalTransition  = errors.New("ILLEGAL_TRANSITION")
	ErrReturnWindow       = errors.New("RETURN_WINDOW_EXPIRED")
	ErrReturnExists       = errors.New("RETURN_ALREADY_REQUESTED")
	ErrSignatureMismatch  = errors.New("SIGNATURE_MISMATCH")
	ErrGatewayUnavailable = errors.New("GATEWAY_UNAVAILABLE")
	ErrInvalidPayment     = errors.New("INVALID_PAYMENT_METHOD")
)

// StockError wraps a stock sentinel with the variant that ran short and
// how many units remain, so handlers can tell the user what to fix.
type StockError struct {
	Product   string
	Size      string
	Available int
	Err       error
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: %s (%s), %d available", e.Err.Error(), e.Product, e.Size, e.Available)
}

func (e *StockError) Unwrap() error { return e.Err }
