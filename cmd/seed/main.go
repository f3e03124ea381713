package main

import (
	"context"
	"log"

	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/config"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/db"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/model"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/repository"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/seed"
)

// Seeds the demo users and tasks into the configured database. Mostly
// useful with DB_DRIVER=mysql; the in-memory store seeds itself at server
// start.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	if err := seed.Demo(context.Background(), userRepo, taskRepo); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	log.Println("Seed completed successfully!")
}
