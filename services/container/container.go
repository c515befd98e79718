package container

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"
	"github.com/Re-Bottle/bottle-collection-system-backend/services"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer manages dependency injection for all services
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// Base services
	jwtService services.InterfaceJWTService

	// Data store services
	redisService services.InterfaceRedisService

	// Device control plane
	iotService services.InterfaceIoTService

	// Business services
	deviceService services.InterfaceDeviceService
	scanService   services.InterfaceScanService
	rewardService services.InterfaceRewardService
	userService   services.InterfaceUserService
	vendorService services.InterfaceVendorService

	mu sync.RWMutex
}

// NewServiceContainer creates a new service container
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}

	if cfg == nil {
		panic("config is nil")
	}

	// Probe the Redis connection; the cache is optional
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis connection test failed: %v, running without cache", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices initializes all services
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Base services
	c.jwtService = services.NewJWTService(c.config)
	c.redisService = services.NewRedisService(c.config)

	// Device control plane; an unreachable broker degrades provisioning
	// announcements but must not block the HTTP service
	c.iotService = services.NewIoTService(c.config)
	if err := c.iotService.Connect(); err != nil {
		log.Printf("MQTT connection failed: %v", err)
	}

	// Business services
	c.deviceService = services.NewDeviceService(c.db, c.config, c.iotService)
	c.scanService = services.NewScanService(c.db, c.config, c.redisService)
	c.rewardService = services.NewRewardService(c.db, c.config, c.redisService)
	c.userService = services.NewUserService(c.db, c.config, c.redisService)
	c.vendorService = services.NewVendorService(c.db, c.config)
}

// GetService returns the service registered under the given name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "iot":
		return c.iotService
	case "device":
		return c.deviceService
	case "scan":
		return c.scanService
	case "reward":
		return c.rewardService
	case "user":
		return c.userService
	case "vendor":
		return c.vendorService
	default:
		return nil
	}
}

// GetDB returns the database handle
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
