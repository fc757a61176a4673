package models

import "time"

// Product represents a catalog entry. Variants carry the sellable
// size/price/stock units; the product itself holds offer and listing state.
type Product struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	Brand        string    `db:"brand" json:"brand"`
	CategoryID   int       `db:"category_id" json:"categoryId"`
	CategoryName string    `db:"category_name" json:"category,omitempty"`
	OfferPercent float64   `db:"offer_percent" json:"offerPercent"`
	IsListed     bool      `db:"is_listed" json:"isListed"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`

	// Populated by joins/secondary queries, not stored on the row.
	Variants []Variant      `db:"-" json:"variants,omitempty"`
	Images   []ProductImage `db:"-" json:"images,omitempty"`
}

// Variant is a sellable size/price/stock unit owned by exactly one product.
// SalePrice is derived: regularPrice reduced by the effective discount,
// which is the max of the product offer and the category offer.
type Variant struct {
	ID           int       `db:"id" json:"id"`
	ProductID    int       `db:"product_id" json:"productId"`
	Size         string    `db:"size" json:"size"`
	RegularPrice float64   `db:"regular_price" json:"regularPrice"`
	SalePrice    float64   `db:"sale_price" json:"salePrice"`
	Stock        int       `db:"stock" json:"stock"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// ProductImage is an ordered image reference for a product.
type ProductImage struct {
	ID        int    `db:"id" json:"id"`
	ProductID int    `db:"product_id" json:"productId"`
	URL       string `db:"url" json:"url"`
	Position  int    `db:"position" json:"position"`
}
