package services

import (
	"errors"
	"time"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"
	"github.com/Re-Bottle/bottle-collection-system-backend/models"

	"gorm.io/gorm"
)

// Reward errors; the messages are part of the API contract
var (
	ErrRewardNotFound     = errors.New("Reward not found")
	ErrInsufficientPoints = errors.New("Insufficient points")
)

// InterfaceRewardService defines the reward service interface
type InterfaceRewardService interface {
	RedeemReward(userID, rewardID uint) (*models.RewardClaim, error)
	GetClaimsByUser(userID uint) ([]models.RewardClaim, error)
}

// RewardService owns reward redemption
type RewardService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService // optional stats cache, may be nil
}

// NewRewardService creates a new reward service
func NewRewardService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService) InterfaceRewardService {
	return &RewardService{
		DB:     db,
		Config: cfg,
		Redis:  redis,
	}
}

// 1 RedeemReward exchanges a user's points for a reward.
//
// The point deduction and the claim record are written in one transaction;
// the balance precondition is re-checked by the store (conditional update on
// total_points), so concurrent redemptions cannot overdraw the balance.
func (s *RewardService) RedeemReward(userID, rewardID uint) (*models.RewardClaim, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScanUserNotFound
		}
		return nil, err
	}

	var reward models.Reward
	if err := s.DB.First(&reward, rewardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}

	if user.TotalPoints < reward.Points {
		return nil, ErrInsufficientPoints
	}

	claim := models.RewardClaim{
		UserID:    userID,
		RewardID:  rewardID,
		Points:    reward.Points,
		Status:    models.RewardClaimStatusClaimed,
		ClaimedAt: time.Now(),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ? AND total_points >= ?", userID, reward.Points).
			Update("total_points", gorm.Expr("total_points - ?", reward.Points))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Balance changed underneath us
			return ErrInsufficientPoints
		}

		return tx.Create(&claim).Error
	})
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := s.Redis.InvalidateUserStats(userID); err != nil {
			config.Warning("failed to invalidate stats cache for user %d: %v", userID, err)
		}
	}

	return &claim, nil
}

// 2 GetClaimsByUser lists the reward claims of a user
func (s *RewardService) GetClaimsByUser(userID uint) ([]models.RewardClaim, error) {
	var claims []models.RewardClaim
	if err := s.DB.Preload("Reward").Where("user_id = ?", userID).Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}
