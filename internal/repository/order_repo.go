package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/VastraLabs/vastra_api/internal/models"
)

// OrderRepository handles data access for orders and order items.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// DB exposes the underlying handle for callers running outside a transaction.
func (r *OrderRepository) DB() sqlx.Ext {
	return r.db
}

// GenerateReference returns a reference like VST-YYYYMMDD-NNNNNN. The
// number comes from a dedicated sequence so concurrent checkouts never
// collide; the date uses Asia/Kolkata from the DB clock to avoid timezone
// drift between app instances.
func (r *OrderRepository) GenerateReference(q sqlx.Ext) (string, error) {
	const seqQ = `
        SELECT nextval('order_reference_seq'),
               TO_CHAR(NOW() AT TIME ZONE 'Asia/Kolkata', 'YYYYMMDD')`
	var next int64
	var ymd string
	if err := q.QueryRowx(seqQ).Scan(&next, &ymd); err != nil {
		return "", err
	}
	return FormatOrderReference(ymd, next), nil
}

// FormatOrderReference renders an order reference from its date and
// sequence parts.
func FormatOrderReference(ymd string, n int64) string {
	return fmt.Sprintf("VST-%s-%06d", ymd, n)
}

// Create inserts an order row. Runs on the checkout transaction.
func (r *OrderRepository) Create(q sqlx.Ext, o *models.Order) error {
	const stmt = `
        INSERT INTO orders (
            reference, user_id, payment_method, status,
            subtotal, delivery_charge, tax, discount, total,
            ship_name, ship_phone, ship_line1, ship_line2, ship_city, ship_state, ship_pincode,
            coupon_code, coupon_type, coupon_value, coupon_discount,
            gateway_order_id, gateway_payment_id,
            created_at, updated_at
        ) VALUES (
            $1,$2,$3,$4,
            $5,$6,$7,$8,$9,
            $10,$11,$12,$13,$14,$15,$16,
            $17,$18,$19,$20,
            $21,$22,
            NOW(),NOW()
        ) RETURNING id`
	return sqlx.Get(q, &o.ID, stmt,
		o.Reference, o.UserID, o.PaymentMethod, o.Status,
		o.Subtotal, o.DeliveryCharge, o.Tax, o.Discount, o.Total,
		o.ShipName, o.ShipPhone, o.ShipLine1, o.ShipLine2, o.ShipCity, o.ShipState, o.ShipPincode,
		o.CouponCode, o.CouponType, o.CouponValue, o.CouponDiscount,
		o.GatewayOrderID, o.GatewayPaymentID,
	)
}

// CreateItem inserts an order item row. Runs on the checkout transaction.
func (r *OrderRepository) CreateItem(q sqlx.Ext, it *models.OrderItem) error {
	const stmt = `
        INSERT INTO order_items (
            order_id, product_id, variant_id, product_name, size,
            price, quantity, status, status_history, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
        RETURNING id`
	return sqlx.Get(q, &it.ID, stmt,
		it.OrderID, it.ProductID, it.VariantID, it.ProductName, it.Size,
		it.Price, it.Quantity, it.Status, nullableJSON(it.StatusHistory))
}

// nullableJSON converts an empty raw message to nil for proper NULL handling.
func nullableJSON(v []byte) interface{} {
	if len(v) == 0 {
		return nil
	}
	return v
}

// GetByID returns an order by internal id.
func (r *OrderRepository) GetByID(id int) (*models.Order, error) {
	const q = `SELECT * FROM orders WHERE id = $1 LIMIT 1`
	var o models.Order
	if err := r.db.Get(&o, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &o, nil
}

// GetByIDAndUser returns an order only when it belongs to the user.
func (r *OrderRepository) GetByIDAndUser(id, userID int) (*models.Order, error) {
	const q = `SELECT * FROM orders WHERE id = $1 AND user_id = $2 LIMIT 1`
	var o models.Order
	if err := r.db.Get(&o, q, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &o, nil
}

// GetByGatewayOrderID finds an order by its payment gateway order id.
func (r *OrderRepository) GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error) {
	const q = `SELECT * FROM orders WHERE gateway_order_id = $1 LIMIT 1`
	var o models.Order
	if err := r.db.Get(&o, q, gatewayOrderID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &o, nil
}

// GetItems returns all items of an order.
func (r *OrderRepository) GetItems(orderID int) ([]models.OrderItem, error) {
	const q = `SELECT * FROM order_items WHERE order_id = $1 ORDER BY id ASC`
	var items []models.OrderItem
	if err := r.db.Select(&items, q, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItemsLocked returns an order's items with row locks held for the
// duration of the surrounding transaction, so cascades and the status
// fold read a stable snapshot.
func (r *OrderRepository) GetItemsLocked(q sqlx.Ext, orderID int) ([]models.OrderItem, error) {
	const stmt = `SELECT * FROM order_items WHERE order_id = $1 ORDER BY id ASC FOR UPDATE`
	var items []models.OrderItem
	if err := sqlx.Select(q, &items, stmt, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByUser returns a user's orders, newest first, paginated.
func (r *OrderRepository) ListByUser(userID, page, limit int) ([]models.Order, int, error) {
	const countQ = `SELECT COUNT(*) FROM orders WHERE user_id = $1`
	var total int
	if err := r.db.Get(&total, countQ, userID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	const q = `SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	var list []models.Order
	if err := r.db.Select(&list, q, userID, limit, offset); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// AdminOrderFilter holds filters for admin order queries.
type AdminOrderFilter struct {
	Status        *string
	PaymentMethod *string
	Reference     *string
	StartDate     *string
	EndDate       *string
	Page          int
	Limit         int
}

// GetAllAdmin returns orders for admin with filters and pagination.
func (r *OrderRepository) GetAllAdmin(filter *AdminOrderFilter) ([]models.Order, int, error) {
	baseQ := `FROM orders o WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		baseQ += fmt.Sprintf(" AND o.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PaymentMethod != nil && *filter.PaymentMethod != "" {
		baseQ += fmt.Sprintf(" AND o.payment_method = $%d", argIdx)
		args = append(args, *filter.PaymentMethod)
		argIdx++
	}
	if filter.Reference != nil && *filter.Reference != "" {
		baseQ += fmt.Sprintf(" AND o.reference ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.Reference+"%")
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseQ += fmt.Sprintf(" AND o.created_at >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseQ += fmt.Sprintf(" AND o.created_at < ($%d::date + interval '1 day')", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQ := "SELECT COUNT(*) " + baseQ
	var total int
	if err := r.db.Get(&total, countQ, args...); err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQ := fmt.Sprintf("SELECT o.* %s ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var list []models.Order
	if err := r.db.Select(&list, selectQ, args...); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// AdminOrderStats contains order statistics for the admin dashboard.
type AdminOrderStats struct {
	TotalOrders     int     `db:"total_orders" json:"totalOrders"`
	PendingOrders   int     `db:"pending_orders" json:"pendingOrders"`
	DeliveredOrders int     `db:"delivered_orders" json:"deliveredOrders"`
	CancelledOrders int     `db:"cancelled_orders" json:"cancelledOrders"`
	TotalRevenue    float64 `db:"total_revenue" json:"totalRevenue"`
	TotalDiscount   float64 `db:"total_discount" json:"totalDiscount"`
}

// GetAdminStats returns aggregate order statistics.
func (r *OrderRepository) GetAdminStats(startDate, endDate *string) (*AdminOrderStats, error) {
	q := `SELECT
            COUNT(*) as total_orders,
            COUNT(*) FILTER (WHERE status = 'Pending') as pending_orders,
            COUNT(*) FILTER (WHERE status = 'Delivered') as delivered_orders,
            COUNT(*) FILTER (WHERE status = 'Cancelled') as cancelled_orders,
            COALESCE(SUM(total) FILTER (WHERE status = 'Delivered'), 0) as total_revenue,
            COALESCE(SUM(discount) FILTER (WHERE status = 'Delivered'), 0) as total_discount
          FROM orders
          WHERE status NOT IN ('Payment Failed', 'Awaiting Payment')`

	args := []interface{}{}
	argIdx := 1

	if startDate != nil && *startDate != "" {
		q += fmt.Sprintf(" AND created_at >= $%d::date", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil && *endDate != "" {
		q += fmt.Sprintf(" AND created_at < ($%d::date + interval '1 day')", argIdx)
		args = append(args, *endDate)
		argIdx++
	}

	var stats AdminOrderStats
	if err := r.db.Get(&stats, q, args...); err != nil {
		return nil, err
	}
	return &stats, nil
}

// UpdateStatus sets the order-level status and optional cancel reason.
func (r *OrderRepository) UpdateStatus(q sqlx.Ext, orderID int, status models.OrderStatus, reason *string) error {
	const stmt = `
        UPDATE orders SET status = $2,
            cancel_reason = COALESCE($3, cancel_reason),
            delivered_at = CASE WHEN $2 = 'Delivered' THEN NOW() ELSE delivered_at END,
            updated_at = NOW()
        WHERE id = $1`
	_, err := q.Exec(stmt, orderID, status, reason)
	return err
}

// UpdateItem writes an item's mutable lifecycle fields.
func (r *OrderRepository) UpdateItem(q sqlx.Ext, it *models.OrderItem) error {
	const stmt = `
        UPDATE order_items SET
            status = $2,
            cancel_reason = $3,
            return_requested = $4,
            return_reason = $5,
            return_reject_reason = $6,
            refund_amount = $7,
            delivered_at = $8,
            status_history = $9,
            updated_at = NOW()
        WHERE id = $1`
	_, err := q.Exec(stmt,
		it.ID, it.Status, it.CancelReason, it.ReturnRequested, it.ReturnReason,
		it.ReturnRejectReason, it.RefundAmount, it.DeliveredAt, nullableJSON(it.StatusHistory))
	return err
}

// SetGatewayRefs records the gateway order/payment ids on an order.
func (r *OrderRepository) SetGatewayRefs(q sqlx.Ext, orderID int, gatewayOrderID, gatewayPaymentID *string) error {
	const stmt = `
        UPDATE orders SET
            gateway_order_id = COALESCE($2, gateway_order_id),
            gateway_payment_id = COALESCE($3, gateway_payment_id),
            updated_at = NOW()
        WHERE id = $1`
	_, err := q.Exec(stmt, orderID, gatewayOrderID, gatewayPaymentID)
	return err
}

// GetStaleAwaitingPayment returns awaiting-payment orders older than the
// given age. The expiry flip is idempotent, so overlapping sweeps are
// harmless and no locking is needed.
func (r *OrderRepository) GetStaleAwaitingPayment(age time.Duration) ([]models.Order, error) {
	const q = `
        SELECT * FROM orders
        WHERE status = 'Awaiting Payment'
          AND created_at < NOW() - $1::interval
        ORDER BY created_at ASC
        LIMIT 50`
	intervalStr := fmt.Sprintf("%d seconds", int(age.Seconds()))
	var list []models.Order
	if err := r.db.Select(&list, q, intervalStr); err != nil {
		return nil, err
	}
	return list, nil
}
