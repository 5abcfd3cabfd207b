package config

import (
	"errors"
	"os"

	"github.com/scanbite/qrmenu/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedCommission ensures the singleton commission row exists. The percentage
// is never overwritten once set.
func SeedCommission(db *gorm.DB) error {
	var commission models.Commission
	err := db.First(&commission, "id = ?", models.DefaultCommissionID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&models.Commission{
		ID:         models.DefaultCommissionID,
		Percentage: 0,
	}).Error
}

// SeedSuperAdmin creates the super admin account from SUPER_ADMIN_EMAIL and
// SUPER_ADMIN_PASSWORD if no account exists for that email yet.
func SeedSuperAdmin(db *gorm.DB) error {
	email := os.Getenv("SUPER_ADMIN_EMAIL")
	password := os.Getenv("SUPER_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var admin models.Admin
	err := db.Where("email = ?", email).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Create(&models.Admin{
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleSuperAdmin,
	}).Error
}
