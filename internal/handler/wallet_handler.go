package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler constructs a WalletHandler.
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// GetWallet handles GET /v1/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	wallet, err := h.walletService.Get(c.GetInt("user_id"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load wallet")
		return
	}
	utils.Success(c, 200, "Wallet retrieved", wallet)
}

// GetTransactions handles GET /v1/wallet/transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 20)

	txs, total, err := h.walletService.Transactions(c.GetInt("user_id"), page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load wallet transactions")
		return
	}
	utils.SuccessWithPagination(c, 200, "Wallet transactions retrieved", txs, page, limit, total)
}
