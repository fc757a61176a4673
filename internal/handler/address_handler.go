package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// AddressHandler handles address-book endpoints.
type AddressHandler struct {
	addressService *service.AddressService
}

// NewAddressHandler constructs an AddressHandler.
func NewAddressHandler(addressService *service.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

type addressRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Line1     string `json:"line1" binding:"required"`
	Line2     string `json:"line2"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Pincode   string `json:"pincode" binding:"required"`
	IsDefault bool   `json:"isDefault"`
}

// List handles GET /v1/addresses
func (h *AddressHandler) List(c *gin.Context) {
	list, err := h.addressService.List(c.GetInt("user_id"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load addresses")
		return
	}
	utils.Success(c, 200, "Addresses retrieved", list)
}

// Create handles POST /v1/addresses
func (h *AddressHandler) Create(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	addr := req.toModel(c.GetInt("user_id"))
	if err := h.addressService.Create(addr); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to save address")
		return
	}
	utils.Success(c, 201, "Address created", addr)
}

// Update handles PUT /v1/addresses/:addressId
func (h *AddressHandler) Update(c *gin.Context) {
	addressID, err := strconv.Atoi(c.Param("addressId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid address id")
		return
	}
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	addr := req.toModel(c.GetInt("user_id"))
	addr.ID = addressID
	if err := h.addressService.Update(addr); err != nil {
		if err == utils.ErrAddressNotFound {
			utils.Error(c, 404, "ADDRESS_NOT_FOUND", "Address not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to save address")
		return
	}
	utils.Success(c, 200, "Address updated", addr)
}

// Delete handles DELETE /v1/addresses/:addressId
func (h *AddressHandler) Delete(c *gin.Context) {
	addressID, err := strconv.Atoi(c.Param("addressId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid address id")
		return
	}

	if err := h.addressService.Delete(addressID, c.GetInt("user_id")); err != nil {
		if err == utils.ErrAddressNotFound {
			utils.Error(c, 404, "ADDRESS_NOT_FOUND", "Address not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete address")
		return
	}
	utils.Success(c, 200, "Address deleted", nil)
}

func (r *addressRequest) toModel(userID int) *models.Address {
	return &models.Address{
		UserID:    userID,
		Name:      r.Name,
		Phone:     r.Phone,
		Line1:     r.Line1,
		Line2:     r.Line2,
		City:      r.City,
		State:     r.State,
		Pincode:   r.Pincode,
		IsDefault: r.IsDefault,
	}
}
