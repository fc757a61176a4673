package service

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/repository"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// ProductManagementService is the admin side of the catalog: category and
// product CRUD, variant stock, and discount offers. Any change to an
// offer recomputes the affected sale prices so the stored sale price is
// always regular price less the better of the product and category
// offers.
type ProductManagementService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
}

// NewProductManagementService constructs a ProductManagementService.
func NewProductManagementService(productRepo *repository.ProductRepository, categoryRepo *repository.CategoryRepository) *ProductManagementService {
	return &ProductManagementService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// CreateCategory adds a category.
func (s *ProductManagementService) CreateCategory(cat *models.Category) error {
	return s.categoryRepo.Create(cat)
}

// UpdateCategory edits a category. An offer change ripples into the sale
// prices of every product under it.
func (s *ProductManagementService) UpdateCategory(cat *models.Category) error {
	existing, err := s.categoryRepo.GetByID(cat.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		return err
	}
	if err := s.categoryRepo.Update(cat); err != nil {
		return err
	}
	if existing.OfferPercent != cat.OfferPercent {
		if err := s.productRepo.RecomputeSalePricesForCategory(cat.ID); err != nil {
			return err
		}
		log.Info().Int("category_id", cat.ID).Float64("offer", cat.OfferPercent).
			Msg("Category offer updated, sale prices recomputed")
	}
	return nil
}

// Categories returns every category including blocked ones.
func (s *ProductManagementService) Categories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// ListProducts returns an admin page of products, unlisted included.
func (s *ProductManagementService) ListProducts(filter *repository.ProductFilter) ([]models.Product, int, error) {
	filter.ListedOnly = false
	return s.productRepo.GetAll(filter)
}

// GetProduct returns any product with variants and images.
func (s *ProductManagementService) GetProduct(productID int) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	variants, err := s.productRepo.GetVariantsByProduct(productID)
	if err != nil {
		return nil, err
	}
	images, err := s.productRepo.GetImagesByProduct(productID)
	if err != nil {
		return nil, err
	}
	product.Variants = variants
	product.Images = images
	return product, nil
}

// CreateProduct adds a product under an existing category.
func (s *ProductManagementService) CreateProduct(p *models.Product) error {
	if _, err := s.categoryRepo.GetByID(p.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Create(p)
}

// UpdateProduct edits a product. An offer change recomputes its variant
// sale prices.
func (s *ProductManagementService) UpdateProduct(p *models.Product) error {
	existing, err := s.productRepo.GetByID(p.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		return err
	}
	if err := s.productRepo.Update(p); err != nil {
		return err
	}
	if existing.OfferPercent != p.OfferPercent {
		if err := s.productRepo.RecomputeSalePrices(p.ID); err != nil {
			return err
		}
		log.Info().Int("product_id", p.ID).Float64("offer", p.OfferPercent).
			Msg("Product offer updated, sale prices recomputed")
	}
	return nil
}

// AddImage attaches an image URL to a product.
func (s *ProductManagementService) AddImage(img *models.ProductImage) error {
	if _, err := s.productRepo.GetByID(img.ProductID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		return err
	}
	return s.productRepo.AddImage(img)
}

// DeleteImage removes a product image.
func (s *ProductManagementService) DeleteImage(imageID, productID int) error {
	return s.productRepo.DeleteImage(imageID, productID)
}

// CreateVariant adds a size variant; its sale price is derived from the
// current offers right away.
func (s *ProductManagementService) CreateVariant(v *models.Variant) error {
	if _, err := s.productRepo.GetByID(v.ProductID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		return err
	}
	v.SalePrice = v.RegularPrice
	if err := s.productRepo.CreateVariant(v); err != nil {
		return err
	}
	return s.productRepo.RecomputeSalePrices(v.ProductID)
}

// UpdateVariant edits a variant's price or stock and re-derives the sale
// price.
func (s *ProductManagementService) UpdateVariant(v *models.Variant) error {
	if err := s.productRepo.UpdateVariant(v); err != nil {
		return err
	}
	return s.productRepo.RecomputeSalePrices(v.ProductID)
}
