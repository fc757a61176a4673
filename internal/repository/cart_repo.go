package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/VastraLabs/vastra_api/internal/models"
)

// CartRepository handles data access for carts and cart lines.
type CartRepository struct {
	db *sqlx.DB
}

// NewCartRepository creates a new CartRepository.
func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

// DB exposes the underlying handle for callers running outside a transaction.
func (r *CartRepository) DB() sqlx.Ext {
	return r.db
}

// GetOrCreate returns the user's cart, creating it on first access.
func (r *CartRepository) GetOrCreate(userID int) (*models.Cart, error) {
	const insertQ = `
        INSERT INTO carts (user_id, created_at, updated_at)
        VALUES ($1, NOW(), NOW())
        ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.Exec(insertQ, userID); err != nil {
		return nil, err
	}

	const selectQ = `SELECT * FROM carts WHERE user_id = $1 LIMIT 1`
	var cart models.Cart
	if err := r.db.Get(&cart, selectQ, userID); err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetItems returns all lines of a cart joined with variant availability
// fields used by cart display and checkout validation.
func (r *CartRepository) GetItems(cartID int) ([]models.CartItem, error) {
	const q = `
        SELECT ci.id, ci.cart_id, ci.variant_id, ci.quantity, ci.created_at, ci.updated_at,
               v.product_id, v.size, v.sale_price, v.stock,
               p.name AS product_name, p.is_listed, c.is_blocked
        FROM cart_items ci
        JOIN variants v ON ci.variant_id = v.id
        JOIN products p ON v.product_id = p.id
        JOIN categories c ON p.category_id = c.id
        WHERE ci.cart_id = $1
        ORDER BY ci.created_at ASC`
	var items []models.CartItem
	if err := r.db.Select(&items, q, cartID); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem returns a single cart line by cart and variant, or sql.ErrNoRows.
func (r *CartRepository) GetItem(cartID, variantID int) (*models.CartItem, error) {
	const q = `SELECT id, cart_id, variant_id, quantity, created_at, updated_at
               FROM cart_items WHERE cart_id = $1 AND variant_id = $2 LIMIT 1`
	var item models.CartItem
	if err := r.db.Get(&item, q, cartID, variantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &item, nil
}

// UpsertItem inserts a cart line or sets the quantity of an existing one.
// The caller has already validated stock and quantity caps.
func (r *CartRepository) UpsertItem(cartID, variantID, quantity int) error {
	const q = `
        INSERT INTO cart_items (cart_id, variant_id, quantity, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        ON CONFLICT (cart_id, variant_id)
        DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()`
	_, err := r.db.Exec(q, cartID, variantID, quantity)
	return err
}

// DeleteItem removes a cart line.
func (r *CartRepository) DeleteItem(cartID, variantID int) error {
	const q = `DELETE FROM cart_items WHERE cart_id = $1 AND variant_id = $2`
	_, err := r.db.Exec(q, cartID, variantID)
	return err
}

// Clear removes every line of a cart. Takes an Ext so checkout can clear
// the cart inside its transaction.
func (r *CartRepository) Clear(q sqlx.Ext, cartID int) error {
	const stmt = `DELETE FROM cart_items WHERE cart_id = $1`
	_, err := q.Exec(stmt, cartID)
	return err
}
