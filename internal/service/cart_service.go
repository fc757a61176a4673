package service

import (
	"database/sql"
	"errors"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/repository"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// CartService contains business logic for the cart and wishlist.
type CartService struct {
	cartRepo     *repository.CartRepository
	productRepo  *repository.ProductRepository
	wishlistRepo *repository.WishlistRepository
}

// NewCartService constructs a CartService.
func NewCartService(cartRepo *repository.CartRepository, productRepo *repository.ProductRepository, wishlistRepo *repository.WishlistRepository) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		wishlistRepo: wishlistRepo,
	}
}

// CartView is the cart with display totals. Unavailable lines are kept
// visible but flagged and excluded from the totals.
type CartView struct {
	Cart   *models.Cart `json:"cart"`
	Totals Totals       `json:"totals"`
}

// Get returns the user's cart with availability flags and totals over the
// available lines only.
func (s *CartService) Get(userID int) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.GetItems(cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	available := availableItems(items)
	return &CartView{Cart: cart, Totals: ComputeTotals(available, 0)}, nil
}

// stockShort builds the stock error naming the variant that ran short.
func stockShort(v *repository.VariantDetail, sentinel error) error {
	return &utils.StockError{
		Product:   v.ProductName,
		Size:      v.Size,
		Available: v.Stock,
		Err:       sentinel,
	}
}

// availableItems filters out lines whose product is unlisted, whose
// category is blocked, or whose variant is out of stock.
func availableItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if it.IsListed && !it.IsBlocked && it.Stock > 0 {
			out = append(out, it)
		}
	}
	return out
}

// AddItem adds a variant to the cart, merging into an existing line. The
// resulting quantity must stay within stock and the per-line cap. Adding a
// product to the cart removes it from the wishlist.
func (s *CartService) AddItem(userID, variantID, quantity int) (*CartView, error) {
	if quantity < 1 {
		quantity = 1
	}

	variant, err := s.productRepo.GetVariant(variantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrVariantNotFound
		}
		return nil, err
	}
	if !variant.Available() {
		return nil, utils.ErrUnavailableItem
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	newQty := quantity
	if existing, err := s.cartRepo.GetItem(cart.ID, variantID); err == nil && existing != nil {
		newQty += existing.Quantity
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if newQty > models.MaxQuantityPerLine {
		return nil, utils.ErrQuantityLimit
	}
	if newQty > variant.Stock {
		return nil, stockShort(variant, utils.ErrInsufficientStock)
	}

	if err := s.cartRepo.UpsertItem(cart.ID, variantID, newQty); err != nil {
		return nil, err
	}
	if err := s.wishlistRepo.Remove(userID, variant.ProductID); err != nil {
		return nil, err
	}

	return s.Get(userID)
}

// SetQuantity replaces the quantity of an existing cart line. Zero removes
// the line.
func (s *CartService) SetQuantity(userID, variantID, quantity int) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.cartRepo.GetItem(cart.ID, variantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrItemNotFound
		}
		return nil, err
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(cart.ID, variantID); err != nil {
			return nil, err
		}
		return s.Get(userID)
	}

	if quantity > models.MaxQuantityPerLine {
		return nil, utils.ErrQuantityLimit
	}

	variant, err := s.productRepo.GetVariant(variantID)
	if err != nil {
		return nil, err
	}
	if !variant.Available() {
		return nil, utils.ErrUnavailableItem
	}
	if quantity > variant.Stock {
		return nil, stockShort(variant, utils.ErrInsufficientStock)
	}

	if err := s.cartRepo.UpsertItem(cart.ID, variantID, quantity); err != nil {
		return nil, err
	}
	return s.Get(userID)
}

// RemoveItem deletes a cart line.
func (s *CartService) RemoveItem(userID, variantID int) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteItem(cart.ID, variantID); err != nil {
		return nil, err
	}
	return s.Get(userID)
}

// Clear empties the cart.
func (s *CartService) Clear(userID int) error {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return err
	}
	return s.cartRepo.Clear(s.cartRepo.DB(), cart.ID)
}

// Wishlist returns the user's saved products.
func (s *CartService) Wishlist(userID int) ([]models.Wishlist, error) {
	return s.wishlistRepo.GetByUser(userID)
}

// AddToWishlist saves a product for later.
func (s *CartService) AddToWishlist(userID, productID int) error {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		return err
	}
	return s.wishlistRepo.Add(userID, productID)
}

// RemoveFromWishlist drops a saved product.
func (s *CartService) RemoveFromWishlist(userID, productID int) error {
	return s.wishlistRepo.Remove(userID, productID)
}
