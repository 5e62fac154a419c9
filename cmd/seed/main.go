package main

import (
	"context"
	"log"
	"os"

	"userportal/internal/config"
	"userportal/internal/db"
	"userportal/internal/hash"
	"userportal/internal/model"
	"userportal/internal/repository"
)

// Seeds the pre-provisioned admin account. Admins have no in-app creation
// workflow; this tool is the only writer of the admins table.
func main() {
	log.Println("Starting admin seed...")

	cfg := config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.Admin{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hasher := hash.New(cfg.BcryptCost)
	hashed, err := hasher.Hash(password)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	adminRepo := repository.NewAdminRepository(gormDB)
	ctx := context.Background()

	existing, err := adminRepo.FindByEmail(ctx, email)
	if err != nil && !repository.IsNotFound(err) {
		log.Fatalf("Failed to look up admin: %v", err)
	}

	if existing != nil {
		existing.PasswordHash = hashed
		if err := gormDB.WithContext(ctx).Save(existing).Error; err != nil {
			log.Fatalf("Failed to update admin: %v", err)
		}
		log.Printf("Updated existing admin %s", email)
		return
	}

	admin := &model.Admin{Email: email, PasswordHash: hashed}
	if err := adminRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Printf("Seeded admin %s (id=%d)", email, admin.ID)
}
