package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/VastraLabs/vastra_api/internal/models"
)

// CategoryRepository handles data access for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a category row.
func (r *CategoryRepository) Create(cat *models.Category) error {
	const q = `
        INSERT INTO categories (name, offer_percent, is_blocked, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        RETURNING id`
	return r.db.QueryRow(q, cat.Name, cat.OfferPercent, cat.IsBlocked).Scan(&cat.ID)
}

// Update updates name, offer, and blocked flag.
func (r *CategoryRepository) Update(cat *models.Category) error {
	const q = `
        UPDATE categories SET name = $2, offer_percent = $3, is_blocked = $4, updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, cat.ID, cat.Name, cat.OfferPercent, cat.IsBlocked)
	return err
}

// GetByID returns a category by id.
func (r *CategoryRepository) GetByID(id int) (*models.Category, error) {
	const q = `SELECT * FROM categories WHERE id = $1 LIMIT 1`
	var cat models.Category
	if err := r.db.Get(&cat, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &cat, nil
}

// GetAll returns all categories ordered by name.
func (r *CategoryRepository) GetAll() ([]models.Category, error) {
	const q = `SELECT * FROM categories ORDER BY name ASC`
	var list []models.Category
	if err := r.db.Select(&list, q); err != nil {
		return nil, err
	}
	return list, nil
}
