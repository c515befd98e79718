package models

import (
	"time"
)

// RewardClaimStatus values for RewardClaim.Status
const (
	RewardClaimStatusClaimed  = "claimed"
	RewardClaimStatusRedeemed = "redeemed"
)

// RewardClaim records a user redeeming a reward for points
type RewardClaim struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"index;not null" json:"user_id"`
	RewardID uint   `gorm:"index;not null" json:"reward_id"`
	Points   int    `gorm:"not null" json:"points"` // points spent, copied from the reward at claim time
	Status   string `gorm:"type:varchar(20);default:'claimed'" json:"status"`

	ClaimedAt time.Time `json:"claimed_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Reward *Reward `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
}
