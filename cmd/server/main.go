package main

import (
	"log"
	"net/http"
	"os"

	_ "taskflow/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskflow/internal/auth"
	"taskflow/internal/cache"
	"taskflow/internal/config"
	"taskflow/internal/db"
	"taskflow/internal/handler"
	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/router"
	"taskflow/internal/service"
)

// @title Task Management API
// @version 1.0
// @description Task assignment and tracking API with role-based access, evaluations and notifications.
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
	e.Debug = cfg.Debug
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Notification{},
			&model.TaskEvaluation{},
			&model.Task{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Task{},
		&model.TaskEvaluation{},
		&model.Notification{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	evaluationRepo := repository.NewEvaluationRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	taskService := service.NewTaskService(taskRepo, userRepo, cacheClient)
	evaluationService := service.NewEvaluationService(evaluationRepo, taskRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Register routes
	router.Register(
		e,
		cfg,
		authService,
		authHandler,
		taskHandler,
		evaluationHandler,
		notificationHandler,
	)

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
