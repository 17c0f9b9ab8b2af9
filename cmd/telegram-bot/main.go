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

	"diet-planner/internal/app"
	"diet-planner/internal/config"
	"diet-planner/internal/telegram"
)

func main() {
	// 1. Load Configuration
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Load tables, open the database and wire the application
	rt, err := app.Bootstrap(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer rt.Close()

	sessions := telegram.NewSessionRepository(rt.DB.SQL)

	// 3. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, rt.App, sessions)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 4. Start Server with Graceful Shutdown
	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)
	mux.Handle("GET /metrics", rt.Collector.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Expired sessions are purged hourly.
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := sessions.CleanupExpired(context.Background(), time.Now())
				if err != nil {
					log.Printf("Warning: session cleanup failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("Removed %d expired sessions", n)
				}
			case <-stop:
				return
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	close(stop)

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
