package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brightsteps/internal/config"
	"brightsteps/internal/database"
	"brightsteps/internal/handlers"
	"brightsteps/internal/repository"
	"brightsteps/internal/security"
	"brightsteps/internal/service"
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

	// Initialize repositories
	kidRepo := repository.NewKidRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	authService := service.NewAuthService(kidRepo, settingsRepo,
		cfg.SessionDuration, cfg.ParentTokenSecret, cfg.ParentTokenTTL)
	progressService := service.NewProgressService(progressRepo)

	// Initialize handlers
	limiter := security.NewRateLimiter(10, time.Minute)
	csrfGenerator := security.NewCSRFGenerator(cfg.CSRFSecret)
	middleware := handlers.NewMiddleware(authService, limiter, csrfGenerator)
	authHandler := handlers.NewAuthHandler(authService, csrfGenerator)
	progressHandler := handlers.NewProgressHandler(progressService)

	// Setup routes
	mux := http.NewServeMux()

	// Kid session routes
	mux.HandleFunc("POST /api/kid/login", middleware.RateLimit(authHandler.KidLogin))
	mux.HandleFunc("POST /api/kid/logout", middleware.CSRFProtect(authHandler.KidLogout))

	// Parent routes
	mux.HandleFunc("POST /api/kids", middleware.RequireParentToken(authHandler.CreateKid))
	mux.HandleFunc("POST /api/parent/pin", middleware.RequireParentTokenIfPINSet(authHandler.SetParentPIN))
	mux.HandleFunc("POST /api/parent/verify", middleware.RateLimit(authHandler.VerifyParentPIN))

	// Progress routes
	mux.HandleFunc("GET /api/progress", middleware.RequireKid(progressHandler.GetProgress))
	mux.HandleFunc("POST /api/progress/completions", middleware.RequireKid(middleware.CSRFProtect(progressHandler.RecordCompletion)))
	mux.HandleFunc("GET /api/progress/achievements", middleware.RequireKid(progressHandler.GetAchievements))
	mux.HandleFunc("DELETE /api/progress", middleware.RequireKid(middleware.CSRFProtect(middleware.RequireParentToken(progressHandler.ResetProgress))))

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

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

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

	log.Println("Server shutting down...")
}

// cleanupExpiredSessions periodically removes expired kid sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Warning: Failed to cleanup expired sessions: %v", err)
		}
	}
}
