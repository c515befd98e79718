package models

import (
	"time"

	"gorm.io/gorm"
)

// Vendor represents a vendor operating collection devices
type Vendor struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(50);not null" json:"name"`
	Email    string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(100);not null" json:"-"` // never exposed in JSON

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate is a GORM hook that runs before a new record is created
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	// BeforeSave has usually hashed already; bcrypt output is 60 bytes
	if v.Password != "" && len(v.Password) < 60 {
		hashedPassword, err := HashPassword(v.Password)
		if err != nil {
			return err
		}
		v.Password = hashedPassword
	}
	return nil
}

// BeforeSave is a GORM hook that runs before a record is saved
func (v *Vendor) BeforeSave(tx *gorm.DB) error {
	if v.Password != "" && len(v.Password) < 60 {
		hashedPassword, err := HashPassword(v.Password)
		if err != nil {
			return err
		}
		v.Password = hashedPassword
	}
	return nil
}
