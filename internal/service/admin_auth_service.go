package service

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/VastraLabs/vastra_api/internal/models"
	"github.com/VastraLabs/vastra_api/internal/repository"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// AdminAuthService authenticates back-office users.
type AdminAuthService struct {
	adminRepo *repository.AdminUserRepository
}

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(adminRepo *repository.AdminUserRepository) *AdminAuthService {
	return &AdminAuthService{adminRepo: adminRepo}
}

// Login checks credentials and issues an admin JWT.
func (s *AdminAuthService) Login(email, password string) (string, *models.AdminUser, error) {
	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, utils.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !admin.IsActive {
		return "", nil, utils.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(admin.ID, admin.Email, "admin")
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("email", admin.Email).Msg("Admin logged in")
	return token, admin, nil
}

// CreateAdmin provisions a back-office account with a bcrypt-hashed password.
func (s *AdminAuthService) CreateAdmin(email, password, name string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.AdminUser{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	return s.adminRepo.Create(admin)
}
