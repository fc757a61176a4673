package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// ProductManagementHandler handles the admin catalog endpoints.
type ProductManagementHandler struct {
	mgmtService *service.ProductManagementService
}

// NewProductManagementHandler constructs a ProductManagementHandler.
func NewProductManagementHandler(mgmtService *service.ProductManagementService) *ProductManagementHandler {
	return &ProductManagementHandler{mgmtService: mgmtService}
}

type categoryRequest struct {
	Name         string  `json:"name" binding:"required"`
	OfferPercent float64 `json:"offerPercent"`
	IsBlocked    bool    `json:"isBlocked"`
}

// ListCategories handles GET /v1/admin/categories
func (h *ProductManagementHandler) ListCategories(c *gin.Context) {
	categories, err := h.mgmtService.Categories()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load categories")
		return
	}
	utils.Success(c, 200, "Categories retrieved", categories)
}

// CreateCategory handles POST /v1/admin/categories
func (h *ProductManagementHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}
	if req.OfferPercent < 0 || req.OfferPercent > 90 {
		utils.Error(c, 400, "INVALID_OFFER", "Offer percent must be between 0 and 90")
		return
	}

	cat := &models.Category{Name: req.Name, OfferPercent: req.OfferPercent, IsBlocked: req.IsBlocked}
	if err := h.mgmtService.CreateCategory(cat); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create category")
		return
	}
	utils.Success(c, 201, "Category created", cat)
}

// UpdateCategory handles PUT /v1/admin/categories/:categoryId
func (h *ProductManagementHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("categoryId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid category id")
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}
	if req.OfferPercent < 0 || req.OfferPercent > 90 {
		utils.Error(c, 400, "INVALID_OFFER", "Offer percent must be between 0 and 90")
		return
	}

	cat := &models.Category{ID: categoryID, Name: req.Name, OfferPercent: req.OfferPercent, IsBlocked: req.IsBlocked}
	if err := h.mgmtService.UpdateCategory(cat); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Category updated", cat)
}

type productRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Brand        string  `json:"brand"`
	CategoryID   int     `json:"categoryId" binding:"required"`
	OfferPercent float64 `json:"offerPercent"`
	IsListed     *bool   `json:"isListed"`
}

func (r *productRequest) toModel() *models.Product {
	listed := true
	if r.IsListed != nil {
		listed = *r.IsListed
	}
	return &models.Product{
		Name:         r.Name,
		Description:  r.Description,
		Brand:        r.Brand,
		CategoryID:   r.CategoryID,
		OfferPercent: r.OfferPercent,
		IsListed:     listed,
	}
}

// ListProducts handles GET /v1/admin/products
func (h *ProductManagementHandler) ListProducts(c *gin.Context) {
	filter := productFilterFromQuery(c)

	products, total, err := h.mgmtService.ListProducts(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load products")
		return
	}
	utils.SuccessWithPagination(c, 200, "Products retrieved", products, filter.Page, filter.Limit, total)
}

// GetProduct handles GET /v1/admin/products/:productId
func (h *ProductManagementHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product id")
		return
	}

	product, err := h.mgmtService.GetProduct(productID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// CreateProduct handles POST /v1/admin/products
func (h *ProductManagementHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}
	if req.OfferPercent < 0 || req.OfferPercent > 90 {
		utils.Error(c, 400, "INVALID_OFFER", "Offer percent must be between 0 and 90")
		return
	}

	product := req.toModel()
	if err := h.mgmtService.CreateProduct(product); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 201, "Product created", product)
}

// UpdateProduct handles PUT /v1/admin/products/:productId
func (h *ProductManagementHandler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product id")
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}
	if req.OfferPercent < 0 || req.OfferPercent > 90 {
		utils.Error(c, 400, "INVALID_OFFER", "Offer percent must be between 0 and 90")
		return
	}

	product := req.toModel()
	product.ID = productID
	if err := h.mgmtService.UpdateProduct(product); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Product updated", product)
}

type variantRequest struct {
	Size         string  `json:"size" binding:"required"`
	RegularPrice float64 `json:"regularPrice" binding:"required,gt=0"`
	Stock        int     `json:"stock" binding:"min=0"`
}

// CreateVariant handles POST /v1/admin/products/:productId/variants
func (h *ProductManagementHandler) CreateVariant(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product id")
		return
	}
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	variant := &models.Variant{
		ProductID:    productID,
		Size:         req.Size,
		RegularPrice: req.RegularPrice,
		Stock:        req.Stock,
	}
	if err := h.mgmtService.CreateVariant(variant); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 201, "Variant created", variant)
}

// UpdateVariant handles PUT /v1/admin/products/:productId/variants/:variantId
func (h *ProductManagementHandler) UpdateVariant(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product id")
		return
	}
	variantID, err := strconv.Atoi(c.Param("variantId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid variant id")
		return
	}
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	variant := &models.Variant{
		ID:           variantID,
		ProductID:    productID,
		Size:         req.Size,
		RegularPrice: req.RegularPrice,
		Stock:        req.Stock,
	}
	if err := h.mgmtService.UpdateVariant(variant); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Variant updated", variant)
}

type imageRequest struct {
	URL      string `json:"url" binding:"required,url"`
	Position int    `json:"position"`
}

// AddImage handles POST /v1/admin/products/:productId/images
func (h *ProductManagementHandler) AddImage(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product id")
		return
	}
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	img := &models.ProductImage{ProductID: productID, URL: req.URL, Position: req.Position}
	if err := h.mgmtService.AddImage(img); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 201, "Image added", img)
}

// DeleteImage handles DELETE /v1/admin/products/:productId/images/:imageId
func (h *ProductManagementHandler) DeleteImage(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product id")
		return
	}
	imageID, err := strconv.Atoi(c.Param("imageId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid image id")
		return
	}

	if err := h.mgmtService.DeleteImage(imageID, productID); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete image")
		return
	}
	utils.Success(c, 200, "Image deleted", nil)
}

func (h *ProductManagementHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrProductNotFound:
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product or category not found")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
