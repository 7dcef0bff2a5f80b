package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"chatdesk/internal/api"
	"chatdesk/internal/config"
	"chatdesk/internal/database"
	"chatdesk/internal/logger"
	"chatdesk/internal/middleware"
	"chatdesk/internal/repository"
	"chatdesk/internal/service"
	"chatdesk/internal/session"
	"chatdesk/internal/validator"
)

func main() {
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		logger.New(&config.Config{}).Error("failed to load configuration", "error", err)
		return err
	}

	log := logger.New(cfg)

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to redis", "error", err)
		return err
	}

	store := repository.NewPostgresStore(db)
	validate := validator.New()
	tokens := session.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenExpiration)
	adminSessions := session.NewAdminStore(redisClient, cfg.Auth.AdminSessionTTL)

	authService := service.NewAuthService(store, tokens, validate, log)
	conversationService := service.NewConversationService(store)
	messageService := service.NewMessageService(store, log)
	groupService := service.NewGroupService(store, validate, log)
	noteService := service.NewNoteService(store, validate, log)
	whatsappService := service.NewWhatsAppService(store, cfg.WhatsApp.DefaultCountryCode, log)
	directoryService := service.NewDirectoryService(store)
	adminService := service.NewAdminService(store, adminSessions, log)

	app := fiber.New(fiber.Config{
		AppName:      "chatdesk",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	api.Register(app, api.Handlers{
		Auth:      api.NewAuthHandler(authService, log),
		Message:   api.NewMessageHandler(messageService, conversationService, log),
		Group:     api.NewGroupHandler(groupService, log),
		Note:      api.NewNoteHandler(noteService, log),
		WhatsApp:  api.NewWhatsAppHandler(whatsappService, log),
		Directory: api.NewDirectoryHandler(directoryService),
		Admin:     api.NewAdminHandler(adminService, cfg.Auth.AdminCookieName, cfg.Auth.AdminCookieSecure, cfg.Auth.AdminSessionTTL, log),
		Health:    api.NewHealthHandler(store, log),
	}, middleware.RequireUser(tokens), middleware.RequireAdmin(adminSessions, cfg.Auth.AdminCookieName))

	errChan := make(chan error, 1)
	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		log.Info("server listening", "addr", addr)
		errChan <- app.Listen(addr)
	}()

	select {
	case sig := <-sigChan:
		log.Info("shutting down", "signal", sig.String())
		return app.Shutdown()
	case err := <-errChan:
		log.Error("server stopped", "error", err)
		return err
	}
}
