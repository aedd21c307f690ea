package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"clinic-backend/internal/auth"
	"clinic-backend/internal/config"
	"clinic-backend/internal/content"
	"clinic-backend/internal/media"
	"clinic-backend/internal/storage"
	"clinic-backend/internal/store"
	"clinic-backend/internal/web"
)

func main() {
	ctx := context.Background()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (port: %d, db: %s, storage: %s)",
		cfg.Server.Port, cfg.Database.Driver, cfg.Storage.Driver)

	// 2. Connect to database and bootstrap system tables
	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to bootstrap system tables: %v", err)
	}
	log.Println("Database ready")

	// 3. Seed the initial admin account if configured
	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if err := seedAdmin(ctx, db, cfg.Auth); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}
	}

	// 4. Select storage backend
	mediaStorage, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}

	// 5. Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: web.ErrorHandler,
		BodyLimit:    int(cfg.Upload.MaxMediaSize) + 1024*1024,
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// 6. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 7. Auth routes (no auth required)
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authHandler := auth.NewHandler(db, issuer, cfg.Auth.BcryptCost)
	auth.RegisterAuthRoutes(app, authHandler)

	// 8. Auth guard for mutating routes
	authMW := auth.RequireAuth(issuer)

	// 9. Content routes (public reads, guarded writes)
	contentHandler := content.NewHandler(db)
	content.RegisterContentRoutes(app, contentHandler, authMW)

	// 10. Upload routes (guarded)
	mediaHandler := media.NewHandler(mediaStorage,
		media.ImagePolicy(cfg.Upload.MaxImageSize),
		media.MediaPolicy(cfg.Upload.MaxMediaSize))
	media.RegisterMediaRoutes(app, mediaHandler, authMW)

	// 11. Serve locally stored uploads
	if cfg.Storage.Driver == "local" {
		app.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 12. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	log.Fatal(app.Listen(addr))
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (storage.MediaStorage, error) {
	switch cfg.Driver {
	case "gcs":
		return storage.NewGCSStorage(ctx, cfg.GCS.Bucket)
	case "s3":
		return storage.NewS3Storage(ctx, cfg.S3)
	case "local":
		return storage.NewLocalStorage(cfg.LocalPath, cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

func seedAdmin(ctx context.Context, db *store.Store, cfg config.AuthConfig) error {
	_, err := db.FindUserByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := db.CreateUser(ctx, map[string]any{
		"id":            uuid.New().String(),
		"email":         cfg.AdminEmail,
		"password_hash": hash,
		"name":          "Admin",
	}); err != nil {
		return err
	}
	log.Printf("Seeded admin account %s", cfg.AdminEmail)
	return nil
}
