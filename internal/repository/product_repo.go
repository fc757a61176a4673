package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/VastraLabs/vastra_api/internal/models"
)

// ProductRepository handles data access for products, variants, and images.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product row.
func (r *ProductRepository) Create(p *models.Product) error {
	const q = `
        INSERT INTO products (name, description, brand, category_id, offer_percent, is_listed, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id`
	return r.db.QueryRow(q, p.Name, p.Description, p.Brand, p.CategoryID, p.OfferPercent, p.IsListed).Scan(&p.ID)
}

// Update updates a product row.
func (r *ProductRepository) Update(p *models.Product) error {
	const q = `
        UPDATE products SET
            name = $2, description = $3, brand = $4, category_id = $5,
            offer_percent = $6, is_listed = $7, updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, p.ID, p.Name, p.Description, p.Brand, p.CategoryID, p.OfferPercent, p.IsListed)
	return err
}

// GetByID returns a product with its category name.
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	const q = `
        SELECT p.*, c.name AS category_name
        FROM products p
        JOIN categories c ON p.category_id = c.id
        WHERE p.id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// ProductFilter holds filters for catalog queries.
type ProductFilter struct {
	CategoryID *int
	Brand      string
	Search     string
	ListedOnly bool
	Page       int
	Limit      int
}

// GetAll returns products with filters and pagination. When ListedOnly is
// set, products of blocked categories and delisted products are excluded.
func (r *ProductRepository) GetAll(filter *ProductFilter) ([]models.Product, int, error) {
	baseQ := `FROM products p
              JOIN categories c ON p.category_id = c.id
              WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.ListedOnly {
		baseQ += " AND p.is_listed = true AND c.is_blocked = false"
	}
	if filter.CategoryID != nil {
		baseQ += fmt.Sprintf(" AND p.category_id = $%d", argIdx)
		args = append(args, *filter.CategoryID)
		argIdx++
	}
	if filter.Brand != "" {
		baseQ += fmt.Sprintf(" AND p.brand ILIKE $%d", argIdx)
		args = append(args, filter.Brand)
		argIdx++
	}
	if filter.Search != "" {
		baseQ += fmt.Sprintf(" AND p.name ILIKE $%d", argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	countQ := "SELECT COUNT(*) " + baseQ
	var total int
	if err := r.db.Get(&total, countQ, args...); err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQ := fmt.Sprintf(
		"SELECT p.*, c.name AS category_name %s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d",
		baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var list []models.Product
	if err := r.db.Select(&list, selectQ, args...); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// GetVariant returns a variant joined with listing/blocking state of its
// product and category, for cart and checkout validation.
func (r *ProductRepository) GetVariant(variantID int) (*VariantDetail, error) {
	const q = `
        SELECT v.id, v.product_id, v.size, v.regular_price, v.sale_price, v.stock,
               p.name AS product_name, p.is_listed, c.is_blocked
        FROM variants v
        JOIN products p ON v.product_id = p.id
        JOIN categories c ON p.category_id = c.id
        WHERE v.id = $1 LIMIT 1`
	var v VariantDetail
	if err := r.db.Get(&v, q, variantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &v, nil
}

// VariantDetail is a variant with the availability state of its owners.
type VariantDetail struct {
	ID           int     `db:"id"`
	ProductID    int     `db:"product_id"`
	Size         string  `db:"size"`
	RegularPrice float64 `db:"regular_price"`
	SalePrice    float64 `db:"sale_price"`
	Stock        int     `db:"stock"`
	ProductName  string  `db:"product_name"`
	IsListed     bool    `db:"is_listed"`
	IsBlocked    bool    `db:"is_blocked"`
}

// Available reports whether the variant can be sold at all.
func (v *VariantDetail) Available() bool {
	return v.IsListed && !v.IsBlocked
}

// GetVariantsByProduct returns all variants for a product.
func (r *ProductRepository) GetVariantsByProduct(productID int) ([]models.Variant, error) {
	const q = `SELECT * FROM variants WHERE product_id = $1 ORDER BY id ASC`
	var list []models.Variant
	if err := r.db.Select(&list, q, productID); err != nil {
		return nil, err
	}
	return list, nil
}

// GetImagesByProduct returns ordered images for a product.
func (r *ProductRepository) GetImagesByProduct(productID int) ([]models.ProductImage, error) {
	const q = `SELECT * FROM product_images WHERE product_id = $1 ORDER BY position ASC`
	var list []models.ProductImage
	if err := r.db.Select(&list, q, productID); err != nil {
		return nil, err
	}
	return list, nil
}

// AddImage attaches an image URL to a product.
func (r *ProductRepository) AddImage(img *models.ProductImage) error {
	const q = `
        INSERT INTO product_images (product_id, url, position)
        VALUES ($1, $2, $3)
        RETURNING id`
	return r.db.Get(&img.ID, q, img.ProductID, img.URL, img.Position)
}

// DeleteImage removes a product image.
func (r *ProductRepository) DeleteImage(imageID, productID int) error {
	const q = `DELETE FROM product_images WHERE id = $1 AND product_id = $2`
	_, err := r.db.Exec(q, imageID, productID)
	return err
}

// CreateVariant inserts a variant; sale price is computed by the caller.
func (r *ProductRepository) CreateVariant(v *models.Variant) error {
	const q = `
        INSERT INTO variants (product_id, size, regular_price, sale_price, stock, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id`
	return r.db.QueryRow(q, v.ProductID, v.Size, v.RegularPrice, v.SalePrice, v.Stock).Scan(&v.ID)
}

// UpdateVariant updates size, prices, and stock of a variant.
func (r *ProductRepository) UpdateVariant(v *models.Variant) error {
	const q = `
        UPDATE variants SET size = $2, regular_price = $3, sale_price = $4, stock = $5, updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, v.ID, v.Size, v.RegularPrice, v.SalePrice, v.Stock)
	return err
}

// DecrementStockIfAvailable atomically decrements stock by qty only when
// enough stock remains. It reports whether the decrement happened. This is
// the conditional-decrement primitive that closes the race between cart
// validation and checkout.
func (r *ProductRepository) DecrementStockIfAvailable(q sqlx.Ext, variantID, qty int) (bool, error) {
	const stmt = `
        UPDATE variants SET stock = stock - $2, updated_at = NOW()
        WHERE id = $1 AND stock >= $2`
	res, err := q.Exec(stmt, variantID, qty)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// IncrementStock atomically restores qty units of stock to a variant.
func (r *ProductRepository) IncrementStock(q sqlx.Ext, variantID, qty int) error {
	const stmt = `UPDATE variants SET stock = stock + $2, updated_at = NOW() WHERE id = $1`
	_, err := q.Exec(stmt, variantID, qty)
	return err
}

// RecomputeSalePrices re-derives sale_price for every variant of a product
// from the effective discount (max of product and category offer). Called
// whenever a product offer changes.
func (r *ProductRepository) RecomputeSalePrices(productID int) error {
	const q = `
        UPDATE variants v SET
            sale_price = ROUND(v.regular_price * (1 - GREATEST(p.offer_percent, c.offer_percent) / 100.0), 2),
            updated_at = NOW()
        FROM products p
        JOIN categories c ON p.category_id = c.id
        WHERE v.product_id = p.id AND p.id = $1`
	_, err := r.db.Exec(q, productID)
	return err
}

// RecomputeSalePricesForCategory re-derives sale_price for every variant in
// a category. Called whenever a category offer changes.
func (r *ProductRepository) RecomputeSalePricesForCategory(categoryID int) error {
	const q = `
        UPDATE variants v SET
            sale_price = ROUND(v.regular_price * (1 - GREATEST(p.offer_percent, c.offer_percent) / 100.0), 2),
            updated_at = NOW()
        FROM products p
        JOIN categories c ON p.category_id = c.id
        WHERE v.product_id = p.id AND c.id = $1`
	_, err := r.db.Exec(q, categoryID)
	return err
}
