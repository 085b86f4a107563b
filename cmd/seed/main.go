package main

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"taskpad/internal/auth"
	"taskpad/internal/config"
	"taskpad/internal/db"
	"taskpad/internal/model"
	"taskpad/internal/repository"
)

type seedUser struct {
	Username string
	Email    string
	Password string
	Active   bool
	Items    []model.Item
}

var seedUsers = []seedUser{
	{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "wonderland",
		Active:   true,
		Items: []model.Item{
			{Title: "buy milk", Description: "semi-skimmed"},
			{Title: "water the plants", Completed: true},
		},
	},
	{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "builder1",
		Active:   true,
		Items: []model.Item{
			{Title: "fix the fence"},
		},
	},
	{
		Username: "mallory",
		Email:    "mallory@example.com",
		Password: "letmein1",
		Active:   false,
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Item{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	itemRepo := repository.NewItemRepository(gormDB)
	hasher := auth.NewPasswordHasher()
	ctx := context.Background()

	created, skipped := 0, 0
	for _, su := range seedUsers {
		existing, err := userRepo.FindByUsername(ctx, su.Username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to check user %q: %v", su.Username, err)
		}
		if existing != nil {
			log.Printf("User %q already exists, skipping", su.Username)
			skipped++
			continue
		}

		hashed, err := hasher.Hash(su.Password)
		if err != nil {
			log.Fatalf("Failed to hash password for %q: %v", su.Username, err)
		}

		user := &model.User{
			Username:       su.Username,
			Email:          su.Email,
			HashedPassword: hashed,
			IsActive:       su.Active,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %q: %v", su.Username, err)
		}

		for _, item := range su.Items {
			item.OwnerID = user.ID
			if err := itemRepo.Create(ctx, &item); err != nil {
				log.Fatalf("Failed to create item %q: %v", item.Title, err)
			}
		}
		created++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users skipped: %d", skipped)
}
