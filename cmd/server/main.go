package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/FabioRibeiro1904/Task-Manager-Api/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/auth"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/cache"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/config"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/db"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/handler"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/model"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/repository"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/router"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/seed"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/service"
)

// @title Task Manager API
// @version 1.0
// @description Task management API with JWT authentication, filtering and statistics.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for _, table := range []interface{}{&model.Task{}, &model.User{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	if cfg.SeedDemoData {
		if err := seed.Demo(context.Background(), userRepo, taskRepo); err != nil {
			log.Fatalf("seed demo data: %v", err)
		}
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(
		cfg.JWTSecret,
		cfg.JWTIssuer,
		cfg.JWTAudience,
		time.Duration(cfg.TokenTTLHours)*time.Hour,
	)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	taskService := service.NewTaskService(taskRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)

	// Register routes
	router.Register(e, jwtService, authHandler, taskHandler)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
