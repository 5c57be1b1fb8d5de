package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/imsoft/cursumi/internal/gateway"
	"github.com/imsoft/cursumi/internal/gateway/middleware"
	"github.com/imsoft/cursumi/internal/modules/catalog"
	"github.com/imsoft/cursumi/internal/modules/checkout"
	checkoutPg "github.com/imsoft/cursumi/internal/modules/checkout/infrastructure/persistence/postgres"
	"github.com/imsoft/cursumi/internal/modules/download"
	"github.com/imsoft/cursumi/internal/modules/filestorage"
	"github.com/imsoft/cursumi/internal/modules/mailer"
	"github.com/imsoft/cursumi/internal/shared/infrastructure/config"
	"github.com/imsoft/cursumi/internal/shared/infrastructure/database"
	"github.com/imsoft/cursumi/pkg/migration"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected successfully")

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := migration.AutoMigrate(cfg.Database.URL(), migrationsPath, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis backs catalog caching and webhook event dedupe; both degrade
	// gracefully, so a missing Redis does not block startup.
	redisClient, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, continuing without cache: %v", err)
		redisClient = nil
	}

	ctx := context.Background()

	filestorageModule, err := filestorage.NewModule(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	catalogModule := catalog.NewModule(db, redisClient)
	mailerModule := mailer.NewModule(cfg.Email)

	purchaseRepo := checkoutPg.NewPurchaseRepository(db)

	downloadModule := download.NewModule(
		purchaseRepo,
		catalogModule.Finder(),
		filestorageModule.Storage(),
		cfg.Download,
		cfg.App.BaseURL,
	)

	checkoutModule := checkout.NewModule(
		purchaseRepo,
		redisClient,
		catalogModule.Finder(),
		mailerModule.Service(),
		downloadModule.LinkBuilder(),
		cfg.Stripe,
		cfg.App.BaseURL,
	)

	mux := gateway.SetupRoutes(gateway.RouterConfig{
		EbookHandler:    catalogModule.HTTPHandler(),
		CheckoutHandler: checkoutModule.HTTPHandler(),
		DownloadHandler: downloadModule.HTTPHandler(),
		ContactHandler:  mailerModule.HTTPHandler(),
	})

	var handler http.Handler = mux
	handler = middleware.PrometheusMiddleware(handler)
	handler = middleware.CORSMiddleware(handler, cfg.Server.AllowedOrigins)

	server := gateway.NewServer(cfg.Server.Port, handler)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
