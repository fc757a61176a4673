package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// CartHandler handles cart and wishlist HTTP endpoints.
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart handles GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.cartService.Get(c.GetInt("user_id"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load cart")
		return
	}
	utils.Success(c, 200, "Cart retrieved", view)
}

type cartItemRequest struct {
	VariantID int `json:"variantId" binding:"required"`
	Quantity  int `json:"quantity"`
}

// AddItem handles POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	view, err := h.cartService.AddItem(c.GetInt("user_id"), req.VariantID, req.Quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Item added to cart", view)
}

// SetQuantity handles PUT /v1/cart/items/:variantId
func (h *CartHandler) SetQuantity(c *gin.Context) {
	variantID, err := strconv.Atoi(c.Param("variantId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid variant id")
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	view, err := h.cartService.SetQuantity(c.GetInt("user_id"), variantID, req.Quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Cart updated", view)
}

// RemoveItem handles DELETE /v1/cart/items/:variantId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	variantID, err := strconv.Atoi(c.Param("variantId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid variant id")
		return
	}

	view, err := h.cartService.RemoveItem(c.GetInt("user_id"), variantID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Item removed", view)
}

// ClearCart handles DELETE /v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.GetInt("user_id")); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to clear cart")
		return
	}
	utils.Success(c, 200, "Cart cleared", nil)
}

// GetWishlist handles GET /v1/wishlist
func (h *CartHandler) GetWishlist(c *gin.Context) {
	list, err := h.cartService.Wishlist(c.GetInt("user_id"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load wishlist")
		return
	}
	utils.Success(c, 200, "Wishlist retrieved", list)
}

// AddToWishlist handles POST /v1/wishlist
func (h *CartHandler) AddToWishlist(c *gin.Context) {
	var req struct {
		ProductID int `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	if err := h.cartService.AddToWishlist(c.GetInt("user_id"), req.ProductID); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 201, "Added to wishlist", nil)
}

// RemoveFromWishlist handles DELETE /v1/wishlist/:productId
func (h *CartHandler) RemoveFromWishlist(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product id")
		return
	}
	if err := h.cartService.RemoveFromWishlist(c.GetInt("user_id"), productID); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update wishlist")
		return
	}
	utils.Success(c, 200, "Removed from wishlist", nil)
}

func (h *CartHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrInsufficientStock) {
		stockError(c, 409, "INSUFFICIENT_STOCK", err)
		return
	}
	switch err {
	case utils.ErrVariantNotFound:
		utils.Error(c, 404, "VARIANT_NOT_FOUND", "Variant not found")
	case utils.ErrProductNotFound:
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case utils.ErrItemNotFound:
		utils.Error(c, 404, "ITEM_NOT_FOUND", "Item is not in the cart")
	case utils.ErrUnavailableItem:
		utils.Error(c, 409, "UNAVAILABLE_ITEM", "Item is not available for purchase")
	case utils.ErrQuantityLimit:
		utils.Error(c, 400, "QUANTITY_LIMIT_EXCEEDED", "Quantity limit per item exceeded")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}

// stockError renders a stock failure, naming the short variant and the
// remaining quantity when the error carries them.
func stockError(c *gin.Context, status int, code string, err error) {
	var se *utils.StockError
	if errors.As(err, &se) {
		utils.ErrorWithDetails(c, status, code,
			fmt.Sprintf("Only %d left for %s (%s)", se.Available, se.Product, se.Size),
			gin.H{"product": se.Product, "size": se.Size, "available": se.Available})
		return
	}
	utils.Error(c, status, code, "Not enough stock for the requested quantity")
}
