package service

import (
	"database/sql"
	"errors"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/repository"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// ProductService serves the public catalog: listed products of unblocked
// categories only.
type ProductService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
}

// NewProductService constructs a ProductService.
func NewProductService(productRepo *repository.ProductRepository, categoryRepo *repository.CategoryRepository) *ProductService {
	return &ProductService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// List returns a storefront page of products.
func (s *ProductService) List(filter *repository.ProductFilter) ([]models.Product, int, error) {
	filter.ListedOnly = true
	return s.productRepo.GetAll(filter)
}

// Get returns one listed product with its variants and images.
func (s *ProductService) Get(productID int) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsListed {
		return nil, utils.ErrProductNotFound
	}

	cat, err := s.categoryRepo.GetByID(product.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat.IsBlocked {
		return nil, utils.ErrProductNotFound
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

// Categories returns the unblocked categories for storefront navigation.
func (s *ProductService) Categories() ([]models.Category, error) {
	all, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, err
	}
	visible := make([]models.Category, 0, len(all))
	for _, c := range all {
		if !c.IsBlocked {
			visible = append(visible, c)
		}
	}
	return visible, nil
}
