package models

import "time"

// MaxQuantityPerLine caps the quantity of a single cart line regardless of stock.
const MaxQuantityPerLine = 5

// Cart is the per-user cart aggregate, upsert-created on first use.
type Cart struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Items []CartItem `db:"-" json:"items"`
}

// CartItem is one (variant, quantity) line. No two lines in a cart share
// a variant; quantity stays within [1, MaxQuantityPerLine].
type CartItem struct {
	ID        int       `db:"id" json:"id"`
	CartID    int       `db:"cart_id" json:"-"`
	VariantID int       `db:"variant_id" json:"variantId"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`

	// Joined fields for display and checkout validation.
	ProductID   int     `db:"product_id" json:"productId"`
	ProductName string  `db:"product_name" json:"productName"`
	Size        string  `db:"size" json:"size"`
	SalePrice   float64 `db:"sale_price" json:"salePrice"`
	Stock       int     `db:"stock" json:"-"`
	IsListed    bool    `db:"is_listed" json:"-"`
	IsBlocked   bool    `db:"is_blocked" json:"-"`
}

// LineTotal returns salePrice x quantity for one cart line.
func (i *CartItem) LineTotal() float64 {
	return i.SalePrice * float64(i.Quantity)
}

// Wishlist is a saved product entry for a user. Adding a variant of the
// product to the cart removes the wishlist entry.
type Wishlist struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	ProductID int       `db:"product_id" json:"productId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
