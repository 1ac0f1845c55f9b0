package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/sopworks/sopdb/internal/config"
	"github.com/sopworks/sopdb/internal/database"
	"github.com/sopworks/sopdb/internal/handlers"
	"github.com/sopworks/sopdb/internal/middleware"
	"github.com/sopworks/sopdb/internal/services"
	"github.com/sopworks/sopdb/internal/storage"
	"github.com/sopworks/sopdb/internal/types"
	"github.com/sopworks/sopdb/internal/upload"
	"github.com/sopworks/sopdb/internal/wizard"

	_ "github.com/sopworks/sopdb/docs/api" // Swagger docs
)

// @title SOP Authoring API
// @version 1.0.0
// @description Go Fiber backend for authoring standard operating procedures
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/sopworks/sopdb

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database (app pool)
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Upload pipeline: legacy server route first, direct storage second.
	pipeline := &upload.Pipeline{}
	if cfg.MediaUploadURL != "" {
		pipeline.Primary = &upload.ServerUploader{
			URL:    cfg.MediaUploadURL,
			Client: &http.Client{Timeout: 60 * time.Second},
		}
	}
	if cfg.StorageConfigured() {
		store, err := storage.NewMinioStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		pipeline.Fallback = &upload.DirectUploader{Store: store}
	}
	if pipeline.Primary == nil && pipeline.Fallback == nil {
		log.Printf("Warning: no upload path configured; media uploads will fail")
	}

	// Wizard draft store (redis)
	drafts, err := wizard.NewRedisDraftStore(cfg.RedisURL, cfg.DraftTTL)
	if err != nil {
		log.Fatalf("Failed to connect to draft store: %v", err)
	}

	// AI suggestions (optional)
	suggestions, err := services.NewSuggestionService(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize suggestion service: %v", err)
	}
	if suggestions == nil {
		log.Printf("Suggestions disabled: no GenAI API key configured")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    int(cfg.MaxUploadBytes) + 1024*1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("sopdb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	sopHandler := &handlers.SOPHandler{DB: db}
	stepHandler := &handlers.StepHandler{DB: db}
	mediaHandler := &handlers.MediaHandler{DB: db, Pipeline: pipeline, MaxUploadBytes: cfg.MaxUploadBytes}
	wizardHandler := &handlers.WizardHandler{
		Wizard: &wizard.Wizard{
			Creator:   &wizard.StoreCreator{DB: db},
			StepDelay: 100 * time.Millisecond,
		},
		Drafts: drafts,
	}
	aiHandler := &handlers.AIHandler{Suggestions: suggestions}
	healthHandler := &handlers.HealthHandler{Config: cfg, DB: db}

	// Health (public)
	api.Get("/health", healthHandler.Health)

	// SOP routes
	api.Get("/sops", middleware.AuthUser(cfg), sopHandler.ListSOPs)
	api.Post("/sops", middleware.AuthUser(cfg), sopHandler.CreateSOP)
	api.Post("/sops/bulk", middleware.AuthUser(cfg), sopHandler.BulkCreateSOP)
	api.Get("/sops/:id", middleware.AuthUser(cfg), sopHandler.GetSOP)
	api.Put("/sops/:id", middleware.AuthUser(cfg), sopHandler.UpdateSOP)

	// Step routes
	api.Post("/sops/:id/steps", middleware.AuthUser(cfg), stepHandler.AddStep)
	api.Post("/sops/:id/steps/reorder", middleware.AuthUser(cfg), stepHandler.ReorderSteps)
	api.Put("/steps/:id", middleware.AuthUser(cfg), stepHandler.UpdateStep)
	api.Delete("/steps/:id", middleware.AuthUser(cfg), stepHandler.DeleteStep)
	api.Post("/steps/:id/move", middleware.AuthUser(cfg), stepHandler.MoveStep)

	// Media routes
	api.Post("/sops/:sop/steps/:step/media", middleware.AuthUser(cfg), mediaHandler.UploadMedia)
	api.Get("/sops/:sop/steps/:step/media", middleware.AuthUser(cfg), mediaHandler.ListMedia)

	// Wizard routes
	api.Post("/wizard/message", middleware.AuthUser(cfg), wizardHandler.Message)
	api.Get("/wizard/draft", middleware.AuthUser(cfg), wizardHandler.GetDraft)
	api.Delete("/wizard/draft", middleware.AuthUser(cfg), wizardHandler.ClearDraft)

	// AI routes
	api.Post("/ai/suggest", middleware.AuthUser(cfg), aiHandler.Suggest)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	log.Printf("Authorizer will be initialized on first authenticated request")

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
