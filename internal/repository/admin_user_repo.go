package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/VastraLabs/vastra_api/internal/models"
)

// AdminUserRepository handles data access for admin accounts.
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new AdminUserRepository.
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByEmail returns an admin user by email.
func (r *AdminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	const q = `SELECT * FROM admin_users WHERE email = $1 LIMIT 1`
	var u models.AdminUser
	if err := r.db.Get(&u, q, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts an admin user.
func (r *AdminUserRepository) Create(u *models.AdminUser) error {
	const q = `
        INSERT INTO admin_users (email, name, password_hash, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING id`
	return r.db.QueryRow(q, u.Email, u.Name, u.PasswordHash, u.IsActive).Scan(&u.ID)
}
