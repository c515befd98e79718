package services

import (
	"errors"
	"time"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"
	"github.com/Re-Bottle/bottle-collection-system-backend/models"

	"gorm.io/gorm"
)

// ClaimWindow bounds how long after its last contact a device (or a scan
// after its creation) stays claimable
const ClaimWindow = 10 * time.Minute

// Device errors; the messages are part of the API contract
var (
	ErrDeviceNotFound           = errors.New("Device not found")
	ErrDeviceAlreadyProvisioned = errors.New("Device has already been provisioned")
	ErrDeviceNotPending         = errors.New("Device is not pending confirmation")
	ErrDeviceRegistrationStale  = errors.New("Device registration has expired")
)

// RegisterResult is the outcome of a device register call
type RegisterResult struct {
	Device      *models.Device
	State       models.DeviceState
	Message     string
	Certificate *CertificateBundle // set only when the call provisioned the device
}

// InterfaceDeviceService defines the device service interface
type InterfaceDeviceService interface {
	RegisterDevice(deviceID, macAddress string) (*RegisterResult, error)
	ClaimDevice(deviceID, vendorID, name, location, description string) (*models.Device, error)
	GetDeviceByDeviceID(deviceID string) (*models.Device, error)
	GetDevicesByVendor(vendorID string) ([]models.Device, error)
	UpdateDeviceDetails(deviceID, name, location, description string) (*models.Device, error)
	DeleteDevice(deviceID string) error
}

// DeviceService owns the device registration and claim lifecycle
type DeviceService struct {
	DB     *gorm.DB
	Config *config.Config
	IoT    InterfaceIoTService
}

// NewDeviceService creates a new device service
func NewDeviceService(db *gorm.DB, cfg *config.Config, iot InterfaceIoTService) InterfaceDeviceService {
	return &DeviceService{
		DB:     db,
		Config: cfg,
		IoT:    iot,
	}
}

// 1 RegisterDevice handles a device announcing itself.
//
// A device calls this repeatedly: the first call creates the record, later
// calls refresh the last-seen timestamp while the device waits to be claimed
// (heartbeat semantics). The first call after a vendor claim provisions the
// device and returns its identity bundle. A provisioned device must never
// register again.
func (s *DeviceService) RegisterDevice(deviceID, macAddress string) (*RegisterResult, error) {
	var device models.Device
	err := s.DB.Where("device_id = ?", deviceID).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		device = models.Device{
			DeviceID:   deviceID,
			MacAddress: macAddress,
			VendorID:   models.VendorUnclaimed,
			Active:     false,
			LastSeenAt: time.Now(),
		}
		if err := s.DB.Create(&device).Error; err != nil {
			return nil, err
		}

		return &RegisterResult{
			Device:  &device,
			State:   models.DeviceStateRegistered,
			Message: "Device Created Successfully",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	// Provisioned devices are terminal for the registration flow
	if device.WhenProvisioned != nil {
		return nil, ErrDeviceAlreadyProvisioned
	}

	if device.WhenClaimed != nil {
		return s.provisionDevice(&device)
	}

	// Unclaimed heartbeat: only refresh the claim window
	now := time.Now()
	if err := s.DB.Model(&device).Update("last_seen_at", now).Error; err != nil {
		return nil, err
	}
	device.LastSeenAt = now

	return &RegisterResult{
		Device:  &device,
		State:   models.DeviceStateRegistered,
		Message: "Device already exists. Timestamp updated.",
	}, nil
}

// provisionDevice issues the identity bundle and stamps when_provisioned.
// The identity call happens first: if it fails nothing has been stamped and
// the device can safely retry by registering again.
func (s *DeviceService) provisionDevice(device *models.Device) (*RegisterResult, error) {
	bundle, err := s.IoT.CreateThingWithCertificate(device.DeviceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := s.DB.Model(&models.Device{}).
		Where("device_id = ? AND when_provisioned IS NULL", device.DeviceID).
		Updates(map[string]interface{}{
			"when_provisioned": now,
			"last_seen_at":     now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// A concurrent register call won the provisioning race
		return nil, ErrDeviceAlreadyProvisioned
	}

	device.WhenProvisioned = &now
	device.LastSeenAt = now

	if err := s.IoT.PublishDeviceStatus(device.DeviceID, map[string]interface{}{
		"state": string(models.DeviceStateProvisioned),
	}); err != nil {
		config.Warning("failed to publish provisioned status for device %s: %v", device.DeviceID, err)
	}

	return &RegisterResult{
		Device:      device,
		State:       models.DeviceStateProvisioned,
		Message:     "Device Provisioned Successfully",
		Certificate: bundle,
	}, nil
}

// 2 ClaimDevice hands a registered device over to a vendor.
//
// The claim is one-shot and only accepted while the device has contacted the
// backend within the claim window; a device that keeps polling register
// effectively refreshes its window.
func (s *DeviceService) ClaimDevice(deviceID, vendorID, name, location, description string) (*models.Device, error) {
	var device models.Device
	if err := s.DB.Where("device_id = ?", deviceID).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}

	if device.WhenClaimed != nil {
		return nil, ErrDeviceNotPending
	}

	if time.Since(device.LastSeenAt) > ClaimWindow {
		return nil, ErrDeviceRegistrationStale
	}

	now := time.Now()
	result := s.DB.Model(&models.Device{}).
		Where("device_id = ? AND when_claimed IS NULL", deviceID).
		Updates(map[string]interface{}{
			"vendor_id":    vendorID,
			"name":         name,
			"location":     location,
			"description":  description,
			"active":       false,
			"when_claimed": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race against a concurrent claim
		return nil, ErrDeviceNotPending
	}

	return s.GetDeviceByDeviceID(deviceID)
}

// 3 GetDeviceByDeviceID looks a device up by its device-assigned id
func (s *DeviceService) GetDeviceByDeviceID(deviceID string) (*models.Device, error) {
	var device models.Device
	if err := s.DB.Where("device_id = ?", deviceID).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &device, nil
}

// 4 GetDevicesByVendor lists the devices a vendor has claimed
func (s *DeviceService) GetDevicesByVendor(vendorID string) ([]models.Device, error) {
	var devices []models.Device
	if err := s.DB.Where("vendor_id = ?", vendorID).Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// 5 UpdateDeviceDetails updates the descriptive fields of a device
func (s *DeviceService) UpdateDeviceDetails(deviceID, name, location, description string) (*models.Device, error) {
	device, err := s.GetDeviceByDeviceID(deviceID)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(device).Updates(map[string]interface{}{
		"name":        name,
		"location":    location,
		"description": description,
	}).Error; err != nil {
		return nil, err
	}

	return s.GetDeviceByDeviceID(deviceID)
}

// 6 DeleteDevice removes a device record (administrative operation)
func (s *DeviceService) DeleteDevice(deviceID string) error {
	device, err := s.GetDeviceByDeviceID(deviceID)
	if err != nil {
		return err
	}
	return s.DB.Delete(device).Error
}
