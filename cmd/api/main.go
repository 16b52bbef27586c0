package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/shopfront/backend/docs"
	"github.com/shopfront/backend/internal/auth"
	"github.com/shopfront/backend/internal/cart"
	"github.com/shopfront/backend/internal/config"
	"github.com/shopfront/backend/internal/handlers"
	"github.com/shopfront/backend/internal/logger"
	"github.com/shopfront/backend/internal/metrics"
	"github.com/shopfront/backend/internal/middleware"
	"github.com/shopfront/backend/internal/models"
	"github.com/shopfront/backend/internal/repositories"
	"github.com/shopfront/backend/internal/services"
	"github.com/shopfront/backend/internal/storage"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Shopfront API
// @version 1.0
// @description Accounts, sessions, carts, orders and profile images of the shop

// @host localhost:4000
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting shop backend")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	metrics.Init()

	// Initialize image storage
	imageStorage, err := newImageStorage(context.Background(), cfg.Storage)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	sessionRepo := repositories.NewSessionRepository(db)
	cartRepo := repositories.NewCartRepository(db, logger.Logger)
	productRepo := repositories.NewProductRepository(db, logger.Logger)
	orderRepo := repositories.NewOrderRepository(db, logger.Logger)

	// Initialize services
	datePolicy := cart.DatePolicy{Mode: cfg.Cart.DateMode, UTCOffset: cfg.Cart.DateUTCOffset}
	authService := services.NewAuthService(userRepo, sessionRepo, cartRepo, tokenGenerator, logger.Logger)
	cartService := services.NewCartService(cartRepo, productRepo, datePolicy, logger.Logger)
	orderService := services.NewOrderService(orderRepo, cartRepo, logger.Logger)
	imageService := services.NewImageService(imageStorage, userRepo, logger.Logger)
	productService := services.NewProductService(productRepo, logger.Logger)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(authService, cartService, imageService, logger.Logger)
	orderHandler := handlers.NewOrderHandler(orderService, logger.Logger)
	productHandler := handlers.NewProductHandler(productService, logger.Logger)
	sessionHandler := handlers.NewSessionHandler(authService, logger.Logger)

	// Initialize auth middleware
	authMiddleware := middleware.AuthMiddleware(authService, false, logger.Logger)
	sessionMiddleware := middleware.AuthMiddleware(authService, true, logger.Logger)
	adminMiddleware := chainMiddleware(authMiddleware, middleware.RoleMiddleware(models.RoleAdmin))
	apiKeyMiddleware := middleware.APIKeyMiddleware(cfg.APIKey)

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Handle("/metrics", metrics.Handler())

	if cfg.Storage.Backend == config.StorageLocal {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.Storage.MediaBasePath))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		userHandler.RegisterRoutes(r, authMiddleware, sessionMiddleware)
		orderHandler.RegisterRoutes(r, authMiddleware, middleware.RoleMiddleware(models.RoleAdmin))
		productHandler.RegisterRoutes(r, adminMiddleware)
		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware)
			sessionHandler.RegisterRoutes(r)
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// newImageStorage selects the image host configured by IMAGE_STORAGE
func newImageStorage(ctx context.Context, cfg config.StorageConfig) (services.ImageStorage, error) {
	if cfg.Backend != config.StorageS3 {
		return storage.NewLocalStorage(cfg.MediaBasePath, cfg.MediaBaseURL), nil
	}

	opts := storage.S3Options{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	}
	client, err := storage.NewS3Client(ctx, opts)
	if err != nil {
		return nil, err
	}
	return storage.NewS3Storage(client, opts), nil
}

// chainMiddleware applies middlewares in the order given
func chainMiddleware(mws ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
