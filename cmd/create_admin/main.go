package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/schedulo/schedulo/application/port/outbound"
	"github.com/schedulo/schedulo/domain/entity"
	"github.com/schedulo/schedulo/infrastructure/config"
	"github.com/schedulo/schedulo/infrastructure/persistence/postgres"
	"github.com/schedulo/schedulo/infrastructure/service/password"
)

// Seeds an admin account straight into the store, so a fresh deployment has
// one before the HTTP surface opens.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	accounts := postgres.NewAccountRepository(db)

	email := "admin@schedulo.local"
	adminPassword := "admin123"
	username := "admin"

	if len(os.Args) > 1 {
		email = os.Args[1]
	}
	if len(os.Args) > 2 {
		adminPassword = os.Args[2]
	}
	if len(os.Args) > 3 {
		username = os.Args[3]
	}

	passwordService := password.NewBcryptService(cfg.BcryptCost)
	passwordHash, err := passwordService.Hash(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := entity.NewAccount(uuid.New().String(), username, email, passwordHash, entity.RoleAdmin, nil)

	if err := accounts.Create(ctx, admin); err != nil {
		if errors.Is(err, outbound.ErrDuplicateEmail) {
			log.Fatalf("An account with email %s already exists", email)
		}
		log.Fatalf("Failed to create admin account: %v", err)
	}

	fmt.Printf("Admin account created\n")
	fmt.Printf("  ID:       %s\n", admin.ID)
	fmt.Printf("  Email:    %s\n", email)
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Role:     %s\n", entity.RoleAdmin)
}
