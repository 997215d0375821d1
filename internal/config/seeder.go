package config

import (
	"log"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/core/domain"
	"transportconnect/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the default admin user. Admin accounts are never
// self-registered; override the defaults with ADMIN_EMAIL / ADMIN_PASSWORD
// in production.
func (s *Seeder) seedAdminUser() error {
	// Check if admin already exists
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	email := getEnv("ADMIN_EMAIL", "admin@transportconnect.local")
	plain := getEnv("ADMIN_PASSWORD", "admin123456")

	hashedPassword, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := &models.User{
		FirstName:  "Platform",
		LastName:   "Admin",
		Email:      email,
		Phone:      "0000000000",
		Password:   hashedPassword,
		Role:       domain.RoleAdmin,
		IsVerified: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}
