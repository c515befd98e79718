package routes

import (
	"github.com/Re-Bottle/bottle-collection-system-backend/config"
	"github.com/Re-Bottle/bottle-collection-system-backend/controllers"
	_ "github.com/Re-Bottle/bottle-collection-system-backend/docs"
	"github.com/Re-Bottle/bottle-collection-system-backend/middleware"
	"github.com/Re-Bottle/bottle-collection-system-backend/services/container"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter initializes and returns the configured router
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// Force UTF-8 JSON responses
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})

	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	middleware.InitAuthMiddleware(cfg)

	// Swagger documentation route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes configures all API routes
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes registers routes that need no authentication
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// Health check
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Authentication
	api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))

	// Device-facing routes. Devices carry no bearer token before they are
	// provisioned, so registration and deposit reports are public and rate
	// limited per IP instead. Register doubles as the heartbeat.
	api.POST("/device/register", middleware.IPRateLimiter(1, 10), controllers.HandleDeviceFunc(container, "registerDevice"))
	api.POST("/scan/createScan", middleware.IPRateLimiter(1, 10), controllers.HandleScanFunc(container, "createScan"))
}

// registerAuthenticatedRoutes registers routes behind the JWT middleware
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// Vendor routes
	vendor := api.Group("/")
	vendor.Use(middleware.AuthenticateVendor())

	vendor.Group("/device").POST("/claimDevice", controllers.HandleDeviceFunc(container, "claimDevice"))
	vendor.Group("/device").GET("", controllers.HandleDeviceFunc(container, "getDevices"))
	vendor.Group("/device").PUT("/:deviceId", controllers.HandleDeviceFunc(container, "updateDevice"))
	vendor.Group("/device").DELETE("/:deviceId", controllers.HandleDeviceFunc(container, "deleteDevice"))

	// End-user routes
	user := api.Group("/")
	user.Use(middleware.AuthenticateUser())

	user.Group("/scan").PUT("/claimScan", controllers.HandleScanFunc(container, "claimScan"))
	user.Group("/scan").GET("", controllers.HandleScanFunc(container, "getScansByUser"))
	user.Group("/reward").POST("/redeem", controllers.HandleRewardFunc(container, "redeemReward"))
	user.Group("/reward").GET("/claims", controllers.HandleRewardFunc(container, "getRewardClaims"))
	user.Group("/user").GET("/stats", controllers.HandleUserFunc(container, "getStats"))

	// Routes shared by both roles
	auth := api.Group("/")
	auth.Use(middleware.Authentication())

	auth.Group("/device").GET("/:deviceId", controllers.HandleDeviceFunc(container, "getDeviceDetails"))
	auth.Group("/scan").DELETE("/:id", controllers.HandleScanFunc(container, "deleteScan"))
}
