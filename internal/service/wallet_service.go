package service

import (
	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/repository"
)

// WalletService exposes the user-facing wallet views. Balance mutations
// happen inside the checkout and order flows, through the repository's
// conditional debit and credit.
type WalletService struct {
	walletRepo *repository.WalletRepository
}

// NewWalletService constructs a WalletService.
func NewWalletService(walletRepo *repository.WalletRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo}
}

// Get returns the user's wallet, provisioning it with a zero balance and a
// fresh referral code on first access.
func (s *WalletService) Get(userID int) (*models.Wallet, error) {
	return s.walletRepo.GetOrCreate(userID)
}

// Transactions returns a page of the wallet's ledger, newest first.
func (s *WalletService) Transactions(userID, page, limit int) ([]models.WalletTransaction, int, error) {
	wallet, err := s.walletRepo.GetOrCreate(userID)
	if err != nil {
		return nil, 0, err
	}
	return s.walletRepo.GetTransactions(wallet.ID, page, limit)
}
