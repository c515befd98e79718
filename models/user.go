package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an end user collecting points by claiming scans
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(50);not null" json:"name"`
	Email    string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(100);not null" json:"-"` // never exposed in JSON

	// Aggregate counters, increased by scan claims and decreased by reward
	// redemptions. Only ever mutated with atomic in-store increments.
	TotalPoints  int `gorm:"default:0" json:"total_points"`
	TotalBottles int `gorm:"default:0" json:"total_bottles"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	RewardClaims []RewardClaim `gorm:"foreignKey:UserID" json:"reward_claims,omitempty"`
}

// BeforeCreate is a GORM hook that runs before a new record is created
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// BeforeSave has usually hashed already; bcrypt output is 60 bytes
	if u.Password != "" && len(u.Password) < 60 {
		hashedPassword, err := HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashedPassword
	}
	return nil
}

// BeforeSave is a GORM hook that runs before a record is saved
func (u *User) BeforeSave(tx *gorm.DB) error {
	// Hash the password if it is set and not already hashed
	if u.Password != "" && len(u.Password) < 60 {
		hashedPassword, err := HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashedPassword
	}
	return nil
}
