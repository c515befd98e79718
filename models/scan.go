package models

import (
	"time"
)

// ScanUnclaimed is the sentinel owner of a scan no user has claimed yet
const ScanUnclaimed = "unclaimed"

// Scan represents a single bottle deposit reported by a device.
//
// ScanData is the physical code printed for the deposit and is unique per
// deposit event; claims look scans up by it. ClaimedBy transitions away from
// the "unclaimed" sentinel exactly once.
type Scan struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DeviceID   string `gorm:"type:varchar(64);index;not null" json:"device_id"`
	ScanData   string `gorm:"type:varchar(128);uniqueIndex;not null" json:"scan_data"`
	BottleType int    `gorm:"not null" json:"bottle_type"` // weight/size class, doubles as point multiplier
	ClaimedBy  string `gorm:"type:varchar(64);default:'unclaimed';index" json:"claimed_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsClaimed reports whether a user has already claimed the scan
func (s *Scan) IsClaimed() bool {
	return s.ClaimedBy != ScanUnclaimed
}
