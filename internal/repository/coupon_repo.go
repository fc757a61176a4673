package repository

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// CouponRepository handles data access for coupons.
type CouponRepository struct {
	db *sqlx.DB
}

// NewCouponRepository creates a new CouponRepository.
func NewCouponRepository(db *sqlx.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// DB exposes the underlying handle for callers running outside a transaction.
func (r *CouponRepository) DB() sqlx.Ext {
	return r.db
}

// Create inserts a coupon. The code is stored canonically uppercase; a
// duplicate code maps to ErrDuplicateCoupon.
func (r *CouponRepository) Create(c *models.Coupon) error {
	const q = `
        INSERT INTO coupons (
            code, type, value, max_discount, min_order, usage_limit, per_user_limit,
            used_count, start_date, end_date, is_active, is_deleted, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,0,$8,$9,$10,false,NOW(),NOW())
        RETURNING id`
	err := r.db.QueryRow(q,
		strings.ToUpper(c.Code), c.Type, c.Value, c.MaxDiscount, c.MinOrder,
		c.UsageLimit, c.PerUserLimit, c.StartDate, c.EndDate, c.IsActive,
	).Scan(&c.ID)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return utils.ErrDuplicateCoupon
	}
	return err
}

// Update updates a coupon's mutable fields.
func (r *CouponRepository) Update(c *models.Coupon) error {
	const q = `
        UPDATE coupons SET
            type = $2, value = $3, max_discount = $4, min_order = $5,
            usage_limit = $6, per_user_limit = $7, start_date = $8, end_date = $9,
            is_active = $10, updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, c.ID, c.Type, c.Value, c.MaxDiscount, c.MinOrder,
		c.UsageLimit, c.PerUserLimit, c.StartDate, c.EndDate, c.IsActive)
	return err
}

// Archive soft-deletes a coupon.
func (r *CouponRepository) Archive(id int) error {
	const q = `UPDATE coupons SET is_deleted = true, is_active = false, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id)
	return err
}

// GetByCode returns a non-archived coupon by canonical code.
func (r *CouponRepository) GetByCode(code string) (*models.Coupon, error) {
	const q = `SELECT * FROM coupons WHERE code = $1 AND is_deleted = false LIMIT 1`
	var c models.Coupon
	if err := r.db.Get(&c, q, strings.ToUpper(code)); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &c, nil
}

// GetAll returns all non-archived coupons, newest first.
func (r *CouponRepository) GetAll() ([]models.Coupon, error) {
	const q = `SELECT * FROM coupons WHERE is_deleted = false ORDER BY created_at DESC`
	var list []models.Coupon
	if err := r.db.Select(&list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// FindApplicable returns active, in-window coupons whose minimum order is
// met and whose global usage cap is not exhausted. Per-user caps are
// checked by the service against the user's order history.
func (r *CouponRepository) FindApplicable(orderValue float64) ([]models.Coupon, error) {
	const q = `
        SELECT * FROM coupons
        WHERE is_active = true
          AND is_deleted = false
          AND start_date <= NOW()
          AND end_date >= NOW()
          AND min_order <= $1
          AND (usage_limit = 0 OR used_count < usage_limit)
        ORDER BY created_at DESC`
	var list []models.Coupon
	if err := r.db.Select(&list, q, orderValue); err != nil {
		return nil, err
	}
	return list, nil
}

// CountUserUsage counts past orders of this user that committed the given
// coupon code. Orders that never captured payment do not consume usage.
// Runs on the checkout transaction when the per-user cap must be enforced
// against concurrent checkouts.
func (r *CouponRepository) CountUserUsage(q sqlx.Ext, userID int, code string) (int, error) {
	const stmt = `
        SELECT COUNT(*) FROM orders
        WHERE user_id = $1 AND coupon_code = $2
          AND status NOT IN ('Payment Failed', 'Awaiting Payment')`
	var n int
	if err := sqlx.Get(q, &n, stmt, userID, strings.ToUpper(code)); err != nil {
		return 0, err
	}
	return n, nil
}

// IncrementUsage atomically counts one use of a coupon, guarded by the
// global usage cap. It reports whether the increment happened; a false
// return inside the checkout transaction aborts the order.
func (r *CouponRepository) IncrementUsage(q sqlx.Ext, couponID int) (bool, error) {
	const stmt = `
        UPDATE coupons SET used_count = used_count + 1, updated_at = NOW()
        WHERE id = $1 AND (usage_limit = 0 OR used_count < usage_limit)`
	res, err := q.Exec(stmt, couponID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
