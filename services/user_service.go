package services

import (
	"errors"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"
	"github.com/Re-Bottle/bottle-collection-system-backend/models"

	"gorm.io/gorm"
)

// InterfaceUserService defines the user service interface
type InterfaceUserService interface {
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserStats(id uint) (totalPoints, totalBottles int, err error)
}

// UserService provides user lookups and aggregate stats
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService // optional stats cache, may be nil
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
		Redis:  redis,
	}
}

// 1 GetUserByID looks a user up by id
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScanUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// 2 GetUserByEmail looks a user up by email (login path)
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScanUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// 3 GetUserStats returns a user's aggregate counters, preferring the cache
func (s *UserService) GetUserStats(id uint) (int, int, error) {
	if s.Redis != nil {
		if points, bottles, err := s.Redis.GetUserStats(id); err == nil {
			return points, bottles, nil
		}
	}

	user, err := s.GetUserByID(id)
	if err != nil {
		return 0, 0, err
	}

	if s.Redis != nil {
		if err := s.Redis.CacheUserStats(id, user.TotalPoints, user.TotalBottles); err != nil {
			config.Warning("failed to cache stats for user %d: %v", id, err)
		}
	}

	return user.TotalPoints, user.TotalBottles, nil
}
