package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assignmenttracker/internal/config"
	"assignmenttracker/internal/database"
	"assignmenttracker/internal/handlers"
	"assignmenttracker/internal/security"
	"assignmenttracker/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
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

	var limiter *security.RateLimiter
	if cfg.RateLimitRequests > 0 {
		limiter = security.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
		defer limiter.Stop()
	}

	// Scheduled backups
	if cfg.BackupSchedule != "" {
		scheduler, err := service.ScheduleBackups(cfg.BackupSchedule, cfg.BackupDir, service.NewBackupService(db))
		if err != nil {
			log.Fatalf("Failed to schedule backups: %v", err)
		}
		defer scheduler.Stop()
		log.Printf("Backups scheduled (%s) into %s", cfg.BackupSchedule, cfg.BackupDir)
	}

	handler := handlers.NewRouter(handlers.RouterConfig{
		DB:      db,
		Prefix:  cfg.APIPrefix,
		Limiter: limiter,
	})

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s%s", addr, cfg.APIPrefix)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
