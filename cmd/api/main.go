package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mosaiq/gallery/internal/api/handlers"
	"github.com/mosaiq/gallery/internal/api/middleware"
	"github.com/mosaiq/gallery/internal/auth"
	"github.com/mosaiq/gallery/internal/config"
	"github.com/mosaiq/gallery/internal/observability"
	"github.com/mosaiq/gallery/internal/openai"
	"github.com/mosaiq/gallery/internal/repository"
	"github.com/mosaiq/gallery/internal/service"
	"github.com/mosaiq/gallery/internal/storage"
	"github.com/mosaiq/gallery/pkg/database"
)

func main() {
	ctx := context.Background()

	// Load configuration; missing required variables fail the process here,
	// before any listener is bound.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogLevel)

	// Initialize database connection
	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, database.WithVectorTypes())
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize object storage
	store, err := storage.NewStore(storage.Config{
		Endpoint:      cfg.StorageEndpoint,
		AccessKey:     cfg.StorageAccessKey,
		SecretKey:     cfg.StorageSecretKey,
		Bucket:        cfg.StorageBucket,
		UseSSL:        cfg.StorageUseSSL,
		PublicBaseURL: cfg.StoragePublicBaseURL,
	})
	if err != nil {
		slog.Error("Failed to create storage client", "error", err)
		os.Exit(1)
	}

	if err := store.EnsureBucket(ctx); err != nil {
		slog.Error("Failed to ensure storage bucket", "error", err)
		os.Exit(1)
	}

	// External clients
	openaiClient := openai.NewClient(cfg.OpenAIAPIKey, openai.WithDimensions(cfg.EmbeddingDimensions))
	authClient := auth.NewClient(auth.ClientOptions{
		BaseURL: cfg.AuthURL,
		AnonKey: cfg.AuthAnonKey,
		Timeout: cfg.HTTPClientTimeout,
	})
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}

	// Repositories
	catalogRepo := repository.NewCatalogRepository(db)
	profilesRepo := repository.NewProfilesRepository(db)

	// Services and handlers
	searchHandler := handlers.NewSearchHandler(service.NewSearchService(openaiClient, catalogRepo, nil))
	generateHandler := handlers.NewGenerateHandler(service.NewGenerationService(openaiClient, store, httpClient, nil))
	contributeHandler := handlers.NewContributeHandler(service.NewContributionService(openaiClient, catalogRepo, nil))
	galleryHandler := handlers.NewGalleryHandler(service.NewGalleryService(catalogRepo, nil))
	downloadHandler := handlers.NewDownloadHandler(httpClient, nil)
	authHandler := handlers.NewAuthHandler(authClient, profilesRepo, cfg.AuthRedirectURL, nil)
	healthHandler := handlers.NewHealthHandler()

	// Public endpoints
	publicMux := http.NewServeMux()
	publicMux.HandleFunc("GET /health", healthHandler.Check)
	publicMux.HandleFunc("POST /v1/search", searchHandler.Search)
	publicMux.HandleFunc("POST /v1/generate", generateHandler.Generate)
	publicMux.HandleFunc("GET /v1/download", downloadHandler.Download)
	publicMux.HandleFunc("POST /v1/auth/signin", authHandler.SignIn)
	publicMux.HandleFunc("POST /v1/auth/signup", authHandler.SignUp)
	publicMux.HandleFunc("POST /v1/auth/reset-password", authHandler.ResetPassword)
	publicMux.HandleFunc("GET /v1/auth/callback", authHandler.Callback)

	// Contribution accepts anonymous callers but attributes authenticated ones.
	publicMux.Handle("POST /v1/contribute",
		middleware.OptionalAuth(authClient)(http.HandlerFunc(contributeHandler.Contribute)))

	// Protected endpoints (valid access token required)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /v1/gallery", galleryHandler.List)

	// Order matters: CORS must wrap Auth so OPTIONS preflight requests bypass authentication
	var protectedHandler http.Handler = protectedMux
	protectedHandler = middleware.Auth(authClient)(protectedHandler)

	mainMux := http.NewServeMux()
	mainMux.Handle("/v1/gallery", protectedHandler)
	mainMux.Handle("/", publicMux)

	var handler http.Handler = mainMux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation waits on the image provider
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// setupLogging configures slog with the specified log level and request-id enrichment.
func setupLogging(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(observability.NewRequestIDHandler(handler)))
}
