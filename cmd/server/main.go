package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mockmate/interview/internal/config"
	"mockmate/interview/internal/events"
	"mockmate/interview/internal/extractor"
	"mockmate/interview/internal/gateway"
	"mockmate/interview/internal/handlers"
	"mockmate/interview/internal/interview"
	"mockmate/interview/internal/jobs"
	"mockmate/interview/internal/llm"
	_ "mockmate/interview/internal/llm/gemini"
	"mockmate/interview/internal/metrics"
	"mockmate/interview/internal/models"
	"mockmate/interview/internal/prompts"
	"mockmate/interview/internal/repositories"
	"mockmate/interview/internal/routers"
)

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// initDatabase initializes the PostgreSQL database connection
func initDatabase() (*gorm.DB, error) {
	host := getEnv("POSTGRES_HOST", "localhost")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "postgres")
	dbname := getEnv("POSTGRES_DB", "postgres")
	port := getEnv("POSTGRES_PORT", "5432")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Interview{}, &models.Turn{}, &models.Feedback{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func registerRoutes(
	router *chi.Mux,
	interviewHandler *handlers.InterviewHandler,
	authHandler *handlers.AuthHandler,
	uploadHandler *handlers.UploadHandler,
	healthHandler *handlers.HealthHandler,
	jwtSecret string,
) {
	routers.HealthRoutes(router, healthHandler)
	routers.UserRoutes(router, authHandler, jwtSecret)
	routers.UploadRoutes(router, uploadHandler, jwtSecret)
	routers.InterviewRoutes(router, interviewHandler, jwtSecret)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded", zap.String("provider", cfg.Provider))

	promptManager, err := prompts.NewManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	db, err := initDatabase()
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	interviewRepo := &repositories.InterviewRepository{DB: db}
	feedbackRepo := &repositories.FeedbackRepository{DB: db}
	userRepo := &repositories.UserRepository{DB: db}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RedisAddr != "" {
		publisher = events.NewRedisPublisher(cfg.RedisAddr, logger)
		logger.Info("feedback_ready events enabled", zap.String("redis_addr", cfg.RedisAddr))
	}

	gw := gateway.New(aiProvider, promptManager, logger).WithTimeout(cfg.GatewayTimeout)
	sessionService := interview.NewService(interviewRepo, feedbackRepo, gw, publisher, interview.AsyncScheduler{}, logger)

	interviewHandler := handlers.NewInterviewHandler(sessionService, logger)
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	uploadHandler := handlers.NewUploadHandler(extractor.NewService(), cfg.UploadDir, logger)
	healthHandler := handlers.NewHealthHandler(aiProvider, promptManager, db)

	exporterJob := jobs.NewFeedbackExporterJob(feedbackRepo, &jobs.ExporterConfig{
		Schedule:  cfg.ExportSchedule,
		ExportDir: cfg.ExportDir,
		Enabled:   cfg.ExportEnabled,
	}, logger)
	if err := exporterJob.Start(); err != nil {
		logger.Error("Failed to start feedback exporter job", zap.Error(err))
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Logger, chimiddleware.Recoverer, chimiddleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware())

	registerRoutes(router, interviewHandler, authHandler, uploadHandler, healthHandler, cfg.JWTSecret)

	serverAddr := ":" + cfg.Port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	exporterJob.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
