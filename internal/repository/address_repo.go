package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/VastraLabs/vastra_api/internal/models"
)

// AddressRepository handles data access for address-book entries.
type AddressRepository struct {
	db *sqlx.DB
}

// NewAddressRepository creates a new AddressRepository.
func NewAddressRepository(db *sqlx.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// FindByIDAndUser returns the address only when it belongs to the user.
func (r *AddressRepository) FindByIDAndUser(addressID, userID int) (*models.Address, error) {
	const q = `SELECT * FROM addresses WHERE id = $1 AND user_id = $2 LIMIT 1`
	var addr models.Address
	if err := r.db.Get(&addr, q, addressID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &addr, nil
}

// GetByUser returns all addresses of a user, default first.
func (r *AddressRepository) GetByUser(userID int) ([]models.Address, error) {
	const q = `SELECT * FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, id ASC`
	var list []models.Address
	if err := r.db.Select(&list, q, userID); err != nil {
		return nil, err
	}
	return list, nil
}

// Create inserts an address. Marking it default clears the previous one.
func (r *AddressRepository) Create(a *models.Address) error {
	if a.IsDefault {
		if err := r.clearDefault(a.UserID); err != nil {
			return err
		}
	}
	const q = `
        INSERT INTO addresses (user_id, name, phone, line1, line2, city, state, pincode, is_default, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
        RETURNING id`
	return r.db.Get(&a.ID, q, a.UserID, a.Name, a.Phone, a.Line1, a.Line2, a.City, a.State, a.Pincode, a.IsDefault)
}

// Update edits an address owned by the user.
func (r *AddressRepository) Update(a *models.Address) error {
	if a.IsDefault {
		if err := r.clearDefault(a.UserID); err != nil {
			return err
		}
	}
	const q = `
        UPDATE addresses SET name = $3, phone = $4, line1 = $5, line2 = $6,
            city = $7, state = $8, pincode = $9, is_default = $10, updated_at = NOW()
        WHERE id = $1 AND user_id = $2`
	res, err := r.db.Exec(q, a.ID, a.UserID, a.Name, a.Phone, a.Line1, a.Line2, a.City, a.State, a.Pincode, a.IsDefault)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an address owned by the user.
func (r *AddressRepository) Delete(addressID, userID int) error {
	const q = `DELETE FROM addresses WHERE id = $1 AND user_id = $2`
	res, err := r.db.Exec(q, addressID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *AddressRepository) clearDefault(userID int) error {
	const q = `UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`
	_, err := r.db.Exec(q, userID)
	return err
}
