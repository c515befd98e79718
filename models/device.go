package models

import (
	"time"
)

// DeviceState represents the registration state reported back to a device
type DeviceState string

const (
	DeviceStateRegistered  DeviceState = "Registered"
	DeviceStateProvisioned DeviceState = "Provisioned"
	DeviceStateError       DeviceState = "Error"
)

// VendorUnclaimed is the sentinel vendor id of a device no vendor has claimed yet
const VendorUnclaimed = "Unclaimed"

// Device represents a bottle collection device (reverse-vending bin).
//
// The lifecycle is driven by two nullable timestamps: a device with
// WhenClaimed unset is still waiting for a vendor, and WhenProvisioned may
// only ever be set after WhenClaimed. A provisioned device is terminal for
// the registration flow.
type Device struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DeviceID    string `gorm:"type:varchar(64);uniqueIndex;not null" json:"device_id"` // assigned by the device itself
	MacAddress  string `gorm:"type:varchar(17);not null" json:"mac_address"`
	VendorID    string `gorm:"type:varchar(64);default:'Unclaimed';index" json:"vendor_id"`
	Name        string `gorm:"type:varchar(50)" json:"name"`
	Location    string `gorm:"type:varchar(100)" json:"location"`
	FillLevel   int    `gorm:"default:0" json:"fill_level"`
	Description string `gorm:"type:varchar(255)" json:"description"`
	Active      bool   `gorm:"default:false" json:"active"`

	WhenClaimed     *time.Time `json:"when_claimed"`
	WhenProvisioned *time.Time `json:"when_provisioned"`

	// LastSeenAt is refreshed on every register call and bounds the claim window
	LastSeenAt time.Time `json:"last_seen_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// State derives the registration state from the lifecycle timestamps
func (d *Device) State() DeviceState {
	if d.WhenProvisioned != nil {
		return DeviceStateProvisioned
	}
	return DeviceStateRegistered
}

// IsClaimed reports whether a vendor has claimed the device
func (d *Device) IsClaimed() bool {
	return d.WhenClaimed != nil
}
