package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/kosame/backend/internal/config"
	"github.com/kosame/backend/internal/database"
	"github.com/kosame/backend/internal/handlers"
	"github.com/kosame/backend/internal/middleware"
	"github.com/kosame/backend/internal/services"
	"github.com/kosame/backend/internal/storage"
	"github.com/kosame/backend/pkg/logger"
	"github.com/kosame/backend/pkg/utils"
)

func main() {
	logger.Init()

	// A .env file is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("storage initialization failed: %v", err)
	}

	settingsService := services.NewSettingsService(db, cfg)
	uploadService := services.NewUploadService(db, store, cfg)

	usersHandler := handlers.NewUsersHandler(db, settingsService)
	filesHandler := handlers.NewFilesHandler(db, store, uploadService, cfg)
	settingsHandler := handlers.NewSettingsHandler(settingsService, cfg)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{
		// Leave headroom above the upload cap for the multipart framing.
		BodyLimit: int(cfg.Upload.MaxFileSizeBytes) + 1<<20,
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/settings", settingsHandler.Get)

	userRoutes := app.Group("/user")
	userRoutes.Post("/register", usersHandler.Register)
	userRoutes.Post("/login", usersHandler.Login)
	userRoutes.Post("/reset-token", authMiddleware.RequireAuth, usersHandler.ResetToken)
	userRoutes.Post("/change-password", authMiddleware.RequireAuth, usersHandler.ChangePassword)

	fileRoutes := app.Group("/file")
	fileRoutes.Post("/upload", authMiddleware.RequireAuth, filesHandler.Upload)
	fileRoutes.Get("/list", authMiddleware.RequireAuth, filesHandler.List)
	fileRoutes.Delete("/delete/:fileId", authMiddleware.RequireAuth, filesHandler.Delete)

	// With the disk backend the uploaded bytes are served straight from the
	// storage root under their randomized names. With an object-storage
	// backend, serving is the bucket's (or a fronting proxy's) job.
	if disk, ok := store.(*storage.DiskStore); ok {
		app.Static("/", disk.Root())
	}

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"address":  listenAddr,
		"base_url": cfg.Server.BaseURL,
		"storage":  cfg.Storage.Backend,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
