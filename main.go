// @title           Re-Bottle Collection System API
// @version         1.0
// @description     Backend for the Re-Bottle recycling reward platform: device provisioning, bottle deposit scans and point rewards
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@rebottle.in

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"
	"github.com/Re-Bottle/bottle-collection-system-backend/models"
	"github.com/Re-Bottle/bottle-collection-system-backend/routes"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := config.SetupLogger(); err != nil {
		fmt.Printf("failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	// Missing .env is fine, the environment may be set another way
	if err := godotenv.Load(); err != nil {
		config.Warning("could not load .env file: %v", err)
	} else {
		config.Info(".env file loaded")
	}

	cfg := config.GetConfig()

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	switch cfg.DBMigrationMode {
	case "drop":
		log.Println("warning: running in drop mode, all tables will be dropped and recreated")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("failed to drop and recreate tables: %v", err)
		}
	default:
		// AutoMigrate only adds new columns and tables
		if err := autoMigrate(db); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
	}

	ensureDefaultRewardExists(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	r := routes.SetupRouter(db, cfg, redisClient)

	port := cfg.ServerPort
	if port == "" {
		port = "8080"
	}

	config.Info("server listening on http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		config.Error("failed to start server: %v", err)
		os.Exit(1)
	}
}

// initDB initializes the database connection
func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.GetDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	fmt.Println("Database connection established")
	return db, nil
}

// autoMigrate migrates all models (only adds new columns and tables)
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Device{},
		&models.Scan{},
		&models.Reward{},
		&models.RewardClaim{},
	)

	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// dropAndRecreateTables drops and recreates all tables
func dropAndRecreateTables(db *gorm.DB) error {
	log.Println("warning: dropping and recreating all tables, all data will be lost")

	// Disable foreign key checks so tables can be dropped in any order
	db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	defer db.Exec("SET FOREIGN_KEY_CHECKS = 1")

	var tables []string
	err := db.Raw("SHOW TABLES").Scan(&tables).Error
	if err != nil {
		return fmt.Errorf("failed to get table names: %w", err)
	}

	for _, table := range tables {
		log.Printf("dropping table: %s", table)
		err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS `%s`", table)).Error
		if err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	log.Println("recreating all tables")
	return autoMigrate(db)
}

// ensureDefaultRewardExists seeds the reward catalog on first boot so the
// redemption flow is usable before an operator adds rewards by hand
func ensureDefaultRewardExists(db *gorm.DB) {
	var count int64
	db.Model(&models.Reward{}).Count(&count)

	if count == 0 {
		reward := models.Reward{
			Name:        "Coffee Voucher",
			Description: "One free coffee at a partner cafe",
			Points:      50,
			Active:      true,
			RedeemBy:    time.Now().AddDate(1, 0, 0),
		}

		result := db.Create(&reward)
		if result.Error != nil {
			log.Printf("failed to create default reward: %v", result.Error)
			return
		}

		log.Println("created default reward (Coffee Voucher, 50 points)")
	}
}
