package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/repository"
	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// CatalogHandler serves the public storefront catalog.
type CatalogHandler struct {
	productService *service.ProductService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(productService *service.ProductService) *CatalogHandler {
	return &CatalogHandler{productService: productService}
}

// ListProducts handles GET /v1/catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := productFilterFromQuery(c)

	products, total, err := h.productService.List(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load products")
		return
	}
	utils.SuccessWithPagination(c, 200, "Products retrieved", products, filter.Page, filter.Limit, total)
}

// GetProduct handles GET /v1/catalog/products/:productId
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product id")
		return
	}

	product, err := h.productService.Get(productID)
	if err != nil {
		if err == utils.ErrProductNotFound {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load product")
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// ListCategories handles GET /v1/catalog/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.Categories()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load categories")
		return
	}
	utils.Success(c, 200, "Categories retrieved", categories)
}

// parseIntQuery reads a positive integer query param with a default.
func parseIntQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}

// productFilterFromQuery builds the product filter shared by the catalog
// and admin listings.
func productFilterFromQuery(c *gin.Context) *repository.ProductFilter {
	filter := &repository.ProductFilter{
		Search: c.Query("search"),
		Brand:  c.Query("brand"),
		Page:   parseIntQuery(c, "page", 1),
		Limit:  parseIntQuery(c, "limit", 20),
	}
	if categoryID, err := strconv.Atoi(c.Query("categoryId")); err == nil {
		filter.CategoryID = &categoryID
	}
	return filter
}
