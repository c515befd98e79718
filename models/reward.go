package models

import (
	"time"
)

// Reward represents a redeemable reward in the catalog
type Reward struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);not null" json:"name"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	Points      int       `gorm:"not null" json:"points"` // cost in points
	Active      bool      `gorm:"default:true" json:"active"`
	RedeemBy    time.Time `json:"redeem_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
