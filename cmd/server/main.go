package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mathclash/internal/ads"
	"mathclash/internal/audio"
	"mathclash/internal/config"
	"mathclash/internal/database"
	"mathclash/internal/handlers"
	"mathclash/internal/problems"
	"mathclash/internal/repository"
	"mathclash/internal/security"
	"mathclash/internal/service"
	"mathclash/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Shared collaborators: durable KV backend, question generator, clip loader
	backend := storage.NewSQLBackend(db)
	generator := problems.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	clipLoader := audio.NewFileLoader(cfg.SoundsPath)

	// Session registry: one game service per anonymous session
	registry := service.NewRegistry(backend, generator, clipLoader, func() ads.Provider {
		return ads.NewSimulatedProvider()
	})

	// Leaderboard
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo)

	// Initialize handlers
	tokens := security.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)
	limiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	middleware := handlers.NewMiddleware(registry, tokens, limiter)
	sessionHandler := handlers.NewSessionHandler(registry, tokens, cfg.SessionTTL)
	ttsService := audio.NewTTSService(cfg.SoundsPath)
	gameHandler := handlers.NewGameHandler(ttsService, cfg.SoundsPath)
	audioHandler := handlers.NewAudioHandler()
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/session", middleware.RateLimit(sessionHandler.Create))
	mux.HandleFunc("POST /api/session/clear", middleware.RequireSession(sessionHandler.Clear))

	mux.HandleFunc("GET /api/state", middleware.RequireSession(gameHandler.State))
	mux.HandleFunc("POST /api/actions", middleware.RequireSession(gameHandler.Dispatch))
	mux.HandleFunc("GET /api/question", middleware.RequireSession(gameHandler.Question))
	mux.HandleFunc("GET /api/question/speech", middleware.RequireSession(gameHandler.QuestionSpeech))
	mux.HandleFunc("POST /api/answer", middleware.RequireSession(gameHandler.Answer))
	mux.HandleFunc("POST /api/revive", middleware.RequireSession(gameHandler.Revive))

	mux.HandleFunc("POST /api/audio/unlock", middleware.RequireSession(audioHandler.Unlock))
	mux.HandleFunc("POST /api/audio/play", middleware.RequireSession(audioHandler.Play))
	mux.HandleFunc("POST /api/audio/stop", middleware.RequireSession(audioHandler.Stop))
	mux.HandleFunc("POST /api/audio/volume", middleware.RequireSession(audioHandler.Volume))
	mux.HandleFunc("GET /api/audio/clip/{name}", middleware.RequireSession(audioHandler.Clip))

	mux.HandleFunc("GET /api/leaderboard", leaderboardHandler.Top)
	mux.HandleFunc("POST /api/leaderboard", middleware.RequireSession(middleware.RateLimit(leaderboardHandler.Submit)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Evict idle sessions in the background
	stop := make(chan struct{})
	go registry.RunCleanup(10*time.Minute, time.Hour, stop)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	close(stop)
	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
