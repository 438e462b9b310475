package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"taskflow/internal/config"
	"taskflow/internal/db"
	"taskflow/internal/model"
	"taskflow/internal/repository"
)

const defaultPassword = "changeme123"

type seedUser struct {
	Username  string
	Email     string
	FirstName string
	Role      model.Role
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	users := []seedUser{
		{Username: "hayder", Email: "hayder@taskflow.local", FirstName: "Hayder", Role: model.RoleAdmin},
		{Username: "ahmed", Email: "ahmed@taskflow.local", FirstName: "Ahmed", Role: model.RoleEmployee},
		{Username: "saif", Email: "saif@taskflow.local", FirstName: "Saif", Role: model.RoleEmployee},
		{Username: "said", Email: "said@taskflow.local", FirstName: "Said", Role: model.RoleEmployee},
		{Username: "abdelrahman", Email: "abdelrahman@taskflow.local", FirstName: "Abdelrahman", Role: model.RoleEmployee},
	}

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	created, skipped, err := seedUsers(ctx, userRepo, users)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users skipped: %d", skipped)
}

// seedUsers creates the given users, skipping any that already exist.
func seedUsers(ctx context.Context, repo repository.UserRepository, users []seedUser) (created int, skipped int, err error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), 10)
	if err != nil {
		return 0, 0, fmt.Errorf("hash password: %w", err)
	}

	for _, u := range users {
		exists, err := repo.ExistsByUsernameOrEmail(ctx, u.Username, u.Email)
		if err != nil {
			return created, skipped, fmt.Errorf("error checking user %s: %w", u.Username, err)
		}
		if exists {
			log.Printf("User already exists: %s", u.Username)
			skipped++
			continue
		}

		user := &model.User{
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: string(hash),
			Role:         u.Role,
			FirstName:    u.FirstName,
			Active:       true,
		}
		if err := repo.Create(ctx, user); err != nil {
			return created, skipped, fmt.Errorf("error creating user %s: %w", u.Username, err)
		}
		log.Printf("Created %s: %s", user.Role, user.Username)
		created++
	}

	return created, skipped, nil
}
