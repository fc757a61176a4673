package service

import (
	"database/sql"
	"errors"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/repository"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// AddressService manages the user's address book.
type AddressService struct {
	addressRepo *repository.AddressRepository
}

// NewAddressService constructs an AddressService.
func NewAddressService(addressRepo *repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// List returns the user's addresses, default first.
func (s *AddressService) List(userID int) ([]models.Address, error) {
	return s.addressRepo.GetByUser(userID)
}

// Create adds an address for the user.
func (s *AddressService) Create(a *models.Address) error {
	return s.addressRepo.Create(a)
}

// Update edits one of the user's addresses.
func (s *AddressService) Update(a *models.Address) error {
	if err := s.addressRepo.Update(a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrAddressNotFound
		}
		return err
	}
	return nil
}

// Delete removes one of the user's addresses.
func (s *AddressService) Delete(addressID, userID int) error {
	if err := s.addressRepo.Delete(addressID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrAddressNotFound
		}
		return err
	}
	return nil
}
