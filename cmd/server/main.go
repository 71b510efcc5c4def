package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"placementprep/interview/internal/config"
	"placementprep/interview/internal/handlers"
	"placementprep/interview/internal/interview"
	"placementprep/interview/internal/jobs"
	"placementprep/interview/internal/llm"
	"placementprep/interview/internal/llm/gemini"
	"placementprep/interview/internal/llm/ollama"
	"placementprep/interview/internal/locks"
	"placementprep/interview/internal/metrics"
	"placementprep/interview/internal/prompts"
	mongorepo "placementprep/interview/internal/repositories/mongo"
	"placementprep/interview/internal/routers"
	"placementprep/interview/internal/scoring"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	// Session store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongorepo.NewClient(ctx, cfg.MongoURI)
	cancel()
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	sessionRepo, err := mongorepo.NewSessionRepo(mongoClient, cfg.DatabaseName, cfg.SessionCollection)
	if err != nil {
		logger.Fatal("Failed to initialize session repository", zap.Error(err))
	}

	// Per-session submit lock. Redis being down degrades to the repository's
	// version guard alone, so this is a warning, not a fatal.
	var locker interview.Locker
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, session locking disabled", zap.Error(err))
	} else {
		locker = locks.NewSessionLocker(rdb, cfg.LockTTL)
	}
	pingCancel()

	// Generation providers. Gemini is optional; Ollama is the fallback and
	// is probed once inside the gateway.
	var primary llm.Provider
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewClient(&gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil {
			logger.Fatal("Failed to initialize Gemini provider", zap.Error(err))
		}
		primary = geminiClient
	} else {
		logger.Info("GEMINI_API_KEY not set, serving from the local chain only")
	}

	ollamaConfig, err := ollama.NewConfig()
	if err != nil {
		logger.Fatal("Failed to load Ollama configuration", zap.Error(err))
	}
	ollamaClient, err := ollama.NewClient(ollamaConfig)
	if err != nil {
		logger.Fatal("Failed to initialize Ollama provider", zap.Error(err))
	}

	probeCtx, probeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	gateway := llm.NewGateway(probeCtx, primary, ollamaClient, logger)
	probeCancel()
	if primary == nil && !gateway.HasFallback() {
		logger.Fatal("No generation provider available: Gemini unconfigured and Ollama unreachable")
	}

	scorer := scoring.NewScorer(gateway, promptManager, logger)
	service := interview.NewService(sessionRepo, gateway, scorer, promptManager, locker, logger)

	interviewHandler := handlers.NewInterviewHandler(service, logger)
	healthHandler := handlers.NewHealthHandler(gateway, promptManager, mongoClient)

	// Background sweep for sessions whose clients never came back.
	expirerJob := jobs.NewSessionExpirerJob(service, &jobs.ExpirerConfig{
		Schedule: cfg.SweeperSchedule,
		Enabled:  cfg.SweeperEnabled,
	}, logger)
	if err := expirerJob.Start(); err != nil {
		logger.Error("Failed to start session expirer job", zap.Error(err))
	}

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer, chimiddleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware("interview"))

	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler, []byte(cfg.JWTSecret))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Interview service starting",
			zap.String("addr", server.Addr),
			zap.Bool("gemini", primary != nil),
			zap.Bool("fallback", gateway.HasFallback()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	expirerJob.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
