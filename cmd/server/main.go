package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"userportal/internal/cache"
	"userportal/internal/config"
	"userportal/internal/db"
	"userportal/internal/handler"
	"userportal/internal/hash"
	"userportal/internal/model"
	"userportal/internal/repository"
	"userportal/internal/router"
	"userportal/internal/service"
	"userportal/internal/session"
	"userportal/internal/view"
)

func main() {
	cfg := config.Load()

	e := echo.New()

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatalf("view init: %v", err)
	}
	e.Renderer = renderer

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Admin{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	adminRepo := repository.NewAdminRepository(gormDB)

	// Sessions and guards
	sessions := session.NewManager(cacheClient, cfg.SessionMaxAge)
	guard := session.NewGuard(sessions, userRepo, adminRepo)

	// Services
	hasher := hash.New(cfg.BcryptCost)
	userService := service.NewUserService(userRepo, hasher)
	adminService := service.NewAdminService(adminRepo, userRepo, hasher)

	// Handlers
	userHandler := handler.NewUserHandler(userService, sessions)
	adminHandler := handler.NewAdminHandler(adminService, sessions)

	router.Register(e, sessions, guard, userHandler, adminHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
