package main

// Command admin creates an administrator account. It is meant to be
// run once against a fresh database, since the HTTP API only lets
// existing admins create privileged users.
//
//	go run ./cmd/admin -email admin@example.com -password secret

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aquarhone/aquabook/internal/config"
	"github.com/aquarhone/aquabook/internal/database"
	"github.com/aquarhone/aquabook/internal/model"
	"github.com/aquarhone/aquabook/internal/repository"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	*email = strings.ToLower(strings.TrimSpace(*email))
	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DBName); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	roles := []string{model.RoleAdmin, model.RoleUser}
	uid, err := users.Create(ctx, *email, *password, roles, cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			log.Fatalf("a user with email %s already exists", *email)
		}
		log.Fatalf("create admin: %v", err)
	}

	log.Printf("admin user created: id=%d email=%s", uid, *email)
}
