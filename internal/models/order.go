package models

import (
	"encoding/json"
	"time"
)

// PaymentMethod enumerates how an order is paid.
type PaymentMethod string

const (
	PaymentCOD      PaymentMethod = "COD"
	PaymentWallet   PaymentMethod = "WALLET"
	PaymentRazorpay PaymentMethod = "RAZORPAY"
)

// OrderStatus is used for both order-level and item-level states.
// "Awaiting Payment" and "Payment Failed" are initial-only states for
// gateway checkouts; "Return Requested" and "Returned" apply to items.
type OrderStatus string

const (
	StatusAwaitingPayment OrderStatus = "Awaiting Payment"
	StatusPaymentFailed   OrderStatus = "Payment Failed"
	StatusPending         OrderStatus = "Pending"
	StatusConfirmed       OrderStatus = "Confirmed"
	StatusProcessing      OrderStatus = "Processing"
	StatusShipped         OrderStatus = "Shipped"
	StatusOutForDelivery  OrderStatus = "Out for Delivery"
	StatusDelivered       OrderStatus = "Delivered"
	StatusCancelled       OrderStatus = "Cancelled"
	StatusReturnRequested OrderStatus = "Return Requested"
	StatusReturned        OrderStatus = "Returned"
)

// Order is the durable record produced by checkout. The shipping address
// and any coupon are snapshotted onto the row so later edits to the
// address book or coupon table cannot change a placed order.
type Order struct {
	ID            int           `db:"id" json:"-"`
	Reference     string        `db:"reference" json:"reference"`
	UserID        int           `db:"user_id" json:"-"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`
	Status        OrderStatus   `db:"status" json:"status"`

	Subtotal       float64 `db:"subtotal" json:"subtotal"`
	DeliveryCharge float64 `db:"delivery_charge" json:"deliveryCharge"`
	Tax            float64 `db:"tax" json:"tax"`
	Discount       float64 `db:"discount" json:"discount"`
	Total          float64 `db:"total" json:"total"`

	// Shipping address snapshot.
	ShipName     string `db:"ship_name" json:"shipName"`
	ShipPhone    string `db:"ship_phone" json:"shipPhone"`
	ShipLine1    string `db:"ship_line1" json:"shipLine1"`
	ShipLine2    string `db:"ship_line2" json:"shipLine2,omitempty"`
	ShipCity     string `db:"ship_city" json:"shipCity"`
	ShipState    string `db:"ship_state" json:"shipState"`
	ShipPincode  string `db:"ship_pincode" json:"shipPincode"`

	// Coupon snapshot (nil columns when no coupon was used).
	CouponCode     *string     `db:"coupon_code" json:"couponCode,omitempty"`
	CouponType     *CouponType `db:"coupon_type" json:"couponType,omitempty"`
	CouponValue    *float64    `db:"coupon_value" json:"couponValue,omitempty"`
	CouponDiscount *float64    `db:"coupon_discount" json:"couponDiscount,omitempty"`

	// Gateway references (Razorpay).
	GatewayOrderID   *string `db:"gateway_order_id" json:"gatewayOrderId,omitempty"`
	GatewayPaymentID *string `db:"gateway_payment_id" json:"gatewayPaymentId,omitempty"`

	CancelReason *string    `db:"cancel_reason" json:"cancelReason,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	DeliveredAt  *time.Time `db:"delivered_at" json:"deliveredAt,omitempty"`
	UpdatedAt    time.Time  `db:"updated_at" json:"-"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem snapshots one purchased line. Its status can lead or lag the
// order status during partial fulfilment; the order status is re-derived
// from item statuses after every item-level change.
type OrderItem struct {
	ID          int         `db:"id" json:"id"`
	OrderID     int         `db:"order_id" json:"-"`
	ProductID   int         `db:"product_id" json:"productId"`
	VariantID   int         `db:"variant_id" json:"variantId"`
	ProductName string      `db:"product_name" json:"productName"`
	Size        string      `db:"size" json:"size"`
	Price       float64     `db:"price" json:"price"`
	Quantity    int         `db:"quantity" json:"quantity"`
	Status      OrderStatus `db:"status" json:"status"`

	CancelReason       *string    `db:"cancel_reason" json:"cancelReason,omitempty"`
	ReturnRequested    bool       `db:"return_requested" json:"returnRequested"`
	ReturnReason       *string    `db:"return_reason" json:"returnReason,omitempty"`
	ReturnRejectReason *string    `db:"return_reject_reason" json:"returnRejectReason,omitempty"`
	RefundAmount       *float64   `db:"refund_amount" json:"refundAmount,omitempty"`
	DeliveredAt        *time.Time `db:"delivered_at" json:"deliveredAt,omitempty"`

	StatusHistory json.RawMessage `db:"status_history" json:"statusHistory,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// StatusChange is one entry of an item's status history log.
type StatusChange struct {
	From   OrderStatus `json:"from"`
	To     OrderStatus `json:"to"`
	Reason string      `json:"reason,omitempty"`
	At     time.Time   `json:"at"`
}

// Subtotal returns price x quantity for this item.
func (i *OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// IsTerminal reports whether an item status accepts no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusReturned
}
