package models

import "time"

// Address is an address-book entry owned by a user. Orders copy the
// fields at placement time rather than referencing the row.
type Address struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Line1     string    `db:"line1" json:"line1"`
	Line2     string    `db:"line2" json:"line2,omitempty"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	Pincode   string    `db:"pincode" json:"pincode"`
	IsDefault bool      `db:"is_default" json:"isDefault"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
