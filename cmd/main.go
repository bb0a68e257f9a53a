package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"media-vault/internal/auth"
	"media-vault/internal/config"
	"media-vault/internal/handlers"
	"media-vault/internal/logger"
	"media-vault/internal/middleware"
	"media-vault/internal/repository"
	"media-vault/internal/routes"
	"media-vault/internal/services"
	"media-vault/internal/storage"
)

func main() {
	// config
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	// logger
	log, err := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Dev(),
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Mongo
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mc, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	db := mc.Database(cfg.Mongo.Database)
	users := repository.NewMongoUserRepo(db, cfg.Mongo.UsersCollection)
	media := repository.NewMongoMediaRepo(db, cfg.Mongo.MediaCollection)

	// S3 blob store
	blobs, err := storage.NewS3Store(context.Background(), cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.Endpoint)
	if err != nil {
		log.Fatalf("s3 init: %v", err)
	}

	// services
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL)
	authSvc := services.NewAuthService(users, tokens, cfg.Auth.BcryptCost, log)
	mediaSvc := services.NewMediaService(media, blobs, cfg.MaxFileBytes, cfg.Upload.ThumbnailWidth, log)

	// fiber app & routes
	app := fiber.New(fiber.Config{
		AppName:      "media-vault",
		BodyLimit:    int(cfg.MaxFileBytes) + 10*1024*1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: middleware.NewErrorHandler(log, cfg.Dev()),
	})
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(log))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.CORS.AllowedOrigins, ","),
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowCredentials: true,
		}))
	} else {
		app.Use(cors.New())
	}

	routes.Setup(app, routes.Deps{
		Auth:        handlers.NewAuthHandler(authSvc),
		Media:       handlers.NewMediaHandler(mediaSvc),
		Health:      handlers.NewHealthHandler(),
		RequireAuth: middleware.RequireAuth(tokens),
		StaticDir:   cfg.App.StaticDir,
	})

	// start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		log.Infof("starting media-vault on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown requested")
	timeoutCtx, cancel2 := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel2()

	_ = app.Shutdown()
	_ = mc.Disconnect(timeoutCtx)
	log.Info("shutdown completed")
}
