package services

import (
	"errors"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"
	"github.com/Re-Bottle/bottle-collection-system-backend/models"

	"gorm.io/gorm"
)

// ErrVendorNotFound reports a missing vendor record
var ErrVendorNotFound = errors.New("Vendor not found")

// InterfaceVendorService defines the vendor service interface
type InterfaceVendorService interface {
	GetVendorByID(id uint) (*models.Vendor, error)
	GetVendorByEmail(email string) (*models.Vendor, error)
}

// VendorService provides vendor lookups
type VendorService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewVendorService creates a new vendor service
func NewVendorService(db *gorm.DB, cfg *config.Config) InterfaceVendorService {
	return &VendorService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetVendorByID looks a vendor up by id
func (s *VendorService) GetVendorByID(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.DB.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// 2 GetVendorByEmail looks a vendor up by email (login path)
func (s *VendorService) GetVendorByEmail(email string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.DB.Where("email = ?", email).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}
