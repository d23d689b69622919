package database

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

// GetDB returns the shared connection or nil before SetupDatabase ran.
func GetDB() *gorm.DB {
	return DB
}

func SetupDatabase() {
	var err error
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{TranslateError: true})
		if err == nil {
			if err = autoMigrate(DB); err != nil {
				panic(err)
			}
			return
		}

		log.Warnf("[Database] Failed to connect (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Infof("[Database] Retrying in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

func autoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.SubscriptionPlan{},
		&models.CompanyAccount{},
		&models.CompanyUser{},
		&models.CompanyUserPermission{},
		&models.BillingPlanMapping{},
		&models.BillingWebhookEvent{},
		&models.AccountNotification{},
	); err != nil {
		return err
	}
	for _, kind := range models.FavouriteKinds() {
		if err := db.Table(kind.TableName()).AutoMigrate(&models.Favourite{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", kind.TableName(), err)
		}
	}
	return ensureInitialPlan(db)
}

// ensureInitialPlan seeds the free plan new companies start on.
func ensureInitialPlan(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.SubscriptionPlan{}).Where("is_initial = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	plan := models.SubscriptionPlan{
		Name:      "Free",
		Period:    models.PlanPeriodMonthly,
		IsInitial: true,
		IsActive:  true,
	}
	if err := db.Create(&plan).Error; err != nil {
		return fmt.Errorf("failed to seed initial plan: %w", err)
	}
	log.Infof("[Database] Seeded initial plan %d", plan.ID)
	return nil
}
