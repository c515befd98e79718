package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"

	"github.com/go-redis/redis/v8"
)

// InterfaceRedisService defines the Redis cache service interface
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheUserStats(userID uint, totalPoints, totalBottles int) error
	GetUserStats(userID uint) (totalPoints, totalBottles int, err error)
	InvalidateUserStats(userID uint) error
	CacheDeviceState(deviceID string, state interface{}) error
	GetDeviceState(deviceID string, dest interface{}) error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// userStats is the cached aggregate counter pair
type userStats struct {
	TotalPoints  int `json:"total_points"`
	TotalBottles int `json:"total_bottles"`
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// CacheUserStats caches a user's aggregate counters
func (s *RedisService) CacheUserStats(userID uint, totalPoints, totalBottles int) error {
	key := fmt.Sprintf("user_stats:%d", userID)
	return s.Set(key, userStats{TotalPoints: totalPoints, TotalBottles: totalBottles}, 10*time.Minute)
}

// GetUserStats gets a user's aggregate counters from cache
func (s *RedisService) GetUserStats(userID uint) (int, int, error) {
	key := fmt.Sprintf("user_stats:%d", userID)
	var stats userStats
	if err := s.Get(key, &stats); err != nil {
		return 0, 0, err
	}
	return stats.TotalPoints, stats.TotalBottles, nil
}

// InvalidateUserStats drops a user's cached counters
func (s *RedisService) InvalidateUserStats(userID uint) error {
	return s.Delete(fmt.Sprintf("user_stats:%d", userID))
}

// CacheDeviceState caches the last reported state of a device
func (s *RedisService) CacheDeviceState(deviceID string, state interface{}) error {
	return s.Set("device_state:"+deviceID, state, time.Hour)
}

// GetDeviceState gets the last reported state of a device from cache
func (s *RedisService) GetDeviceState(deviceID string, dest interface{}) error {
	return s.Get("device_state:"+deviceID, dest)
}
