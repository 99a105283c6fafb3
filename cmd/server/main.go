package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	_ "useradmin/docs" // swagger docs

	"useradmin/internal/auth"
	"useradmin/internal/cache"
	"useradmin/internal/config"
	"useradmin/internal/db"
	"useradmin/internal/handler"
	"useradmin/internal/logger"
	"useradmin/internal/model"
	"useradmin/internal/repository"
	"useradmin/internal/router"
	"useradmin/internal/service"
)

// @title User Administration API
// @version 1.0
// @description User management backend with JWT bearer authentication, account blocking and batch administration.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()

	lg, err := logger.New()
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		sugar.Fatalf("database init: %v", err)
	}

	// Drop the users table if RESET_DB is set (dev convenience).
	if os.Getenv("RESET_DB") == "true" {
		sugar.Info("RESET_DB=true detected, dropping users table")
		if err := gormDB.Migrator().DropTable(&model.User{}); err != nil {
			sugar.Warnf("failed to drop table (may not exist): %v", err)
		}
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		sugar.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	authService := service.NewAuthService(userRepo, jwtService, cacheClient, sugar)
	userService := service.NewUserService(userRepo, cacheClient, sugar)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, sugar)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, lg, jwtService, authHandler, userHandler)

	addr := ":" + cfg.ServerPort
	sugar.Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		sugar.Fatalf("server start: %v", err)
	}
}
