package database

import (
	"errors"

	"gradepay/config"
	"gradepay/internal/domain"
	"gradepay/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
		// Unique-key violations become gorm.ErrDuplicatedKey, which the
		// repositories map to domain.ErrDuplicateOperation.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.LedgerEntry{},
		&models.CommissionRecord{},
		&models.WithdrawalRequest{},
		&models.Partner{},
		&models.Referral{},
		&models.SystemSetting{},
		&models.Notification{},
	)
}

// SettingDefaults are seeded once at boot; existing values are never overwritten.
var SettingDefaults = map[string]string{
	domain.SettingPlatformCommissionPercent: "50",
	domain.SettingMinimumWithdrawal:         "1000",
	domain.SettingDefaultSubmissionCost:     "200",
	domain.SettingTestSubmissionCost:        "50",
	domain.SettingDefaultPartnerRate:        "15",
}

// SeedAdmin creates the initial admin account if no admin exists.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		FirstName:    "System",
		LastName:     "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	err = db.Create(admin).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}
