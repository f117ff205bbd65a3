package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/learnsphere/enrollment-service/config"
	"github.com/learnsphere/enrollment-service/db"
	"github.com/learnsphere/enrollment-service/internal/enrollment/handler"
	repo "github.com/learnsphere/enrollment-service/internal/enrollment/repository/postgres"
	"github.com/learnsphere/enrollment-service/internal/enrollment/service"
	"github.com/learnsphere/enrollment-service/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	if err := db.RunMigrations(ctx, dbPool); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	accountRepo := repo.NewAccountRepository(dbPool)
	courseRepo := repo.NewCourseRepository(dbPool)

	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.AccessExpiryMin)
	accountService := service.NewAccountService(accountRepo, tokenService, cfg, log)
	enrollmentService := service.NewEnrollmentService(accountRepo, courseRepo, cfg, log)
	classService := service.NewClassService(courseRepo, log)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := accountService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal("failed to seed admin account", zap.Error(err))
		}
	}

	app := fiber.New()
	handler.RegisterRoutes(app,
		handler.NewAuthHandler(accountService, tokenService),
		handler.NewEnrollmentHandler(enrollmentService),
		handler.NewClassHandler(classService))

	log.Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
