package models

import "time"

// Category groups products and can carry its own offer percentage.
// A blocked category hides all of its products from the storefront.
type Category struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	OfferPercent float64   `db:"offer_percent" json:"offerPercent"`
	IsBlocked    bool      `db:"is_blocked" json:"isBlocked"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
