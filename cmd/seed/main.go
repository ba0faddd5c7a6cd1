package main

import (
	"log"
	"os"
	"time"

	"cv-adapter-be/internal/model"
	"cv-adapter-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding subscription plans...")
	seedPlans(db)

	color.Cyan("Seeding admin user...")
	seedAdmin(db)

	color.Green("Seeding complete ✅")
}

func seedPlans(db *gorm.DB) {
	plans := []model.SubscriptionPlan{
		{
			Name:            "Free",
			Slug:            "free",
			Description:     "Try CV Adapter with a couple of free generations.",
			Tagline:         "Get started",
			Price:           0,
			BillingPeriod:   "monthly",
			GenerationLimit: 2,
			IsActive:        true,
			SortOrder:       0,
		},
		{
			Name:            "Pro Monthly",
			Slug:            "pro-monthly",
			Description:     "Unlimited tailored CVs, cover letters and interview prep.",
			Tagline:         "For active job seekers",
			Price:           49000,
			BillingPeriod:   "monthly",
			GenerationLimit: -1,
			IsMostPopular:   true,
			IsActive:        true,
			SortOrder:       1,
		},
		{
			Name:            "Pro Yearly",
			Slug:            "pro-yearly",
			Description:     "Unlimited generations, two months free.",
			Tagline:         "Best value",
			Price:           490000,
			BillingPeriod:   "yearly",
			GenerationLimit: -1,
			IsActive:        true,
			SortOrder:       2,
		},
	}

	for _, p := range plans {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&p).Error
		if err != nil {
			color.Red("  ✗ plan %s: %v", p.Slug, err)
			continue
		}
		color.Green("  ✓ plan %s", p.Slug)
	}
}

func seedAdmin(db *gorm.DB) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		color.Yellow("  - SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD not set, skipping")
		return
	}

	var count int64
	db.Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		color.Yellow("  - admin %s already exists, skipping", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		color.Red("  ✗ hashing password: %v", err)
		return
	}

	now := time.Now()
	hashStr := string(hash)
	admin := model.User{
		Email:           email,
		PasswordHash:    &hashStr,
		FullName:        "Administrator",
		Role:            "admin",
		Status:          "active",
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}
	if err := db.Create(&admin).Error; err != nil {
		color.Red("  ✗ admin user: %v", err)
		return
	}
	color.Green("  ✓ admin %s", email)
}
