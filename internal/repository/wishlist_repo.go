package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/VastraLabs/vastra_api/internal/models"
)

// WishlistRepository handles data access for wishlist entries.
type WishlistRepository struct {
	db *sqlx.DB
}

// NewWishlistRepository creates a new WishlistRepository.
func NewWishlistRepository(db *sqlx.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// GetByUser returns a user's wishlist entries, newest first.
func (r *WishlistRepository) GetByUser(userID int) ([]models.Wishlist, error) {
	const q = `SELECT * FROM wishlists WHERE user_id = $1 ORDER BY created_at DESC`
	var list []models.Wishlist
	if err := r.db.Select(&list, q, userID); err != nil {
		return nil, err
	}
	return list, nil
}

// Add inserts a wishlist entry; duplicates are ignored.
func (r *WishlistRepository) Add(userID, productID int) error {
	const q = `
        INSERT INTO wishlists (user_id, product_id, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id, product_id) DO NOTHING`
	_, err := r.db.Exec(q, userID, productID)
	return err
}

// Remove deletes a wishlist entry. Used both by the wishlist endpoints and
// by the cart on add-to-cart (an item is never wishlisted and carted).
func (r *WishlistRepository) Remove(userID, productID int) error {
	const q = `DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`
	_, err := r.db.Exec(q, userID, productID)
	return err
}
