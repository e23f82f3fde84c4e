// Assistente - Tech Solutions conversational assistant server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/techsolutions/assistente/internal/api"
	"github.com/techsolutions/assistente/internal/config"
	"github.com/techsolutions/assistente/internal/dialog"
	"github.com/techsolutions/assistente/internal/faq"
	"github.com/techsolutions/assistente/internal/flow"
	"github.com/techsolutions/assistente/internal/middleware"
	"github.com/techsolutions/assistente/internal/nlu"
	"github.com/techsolutions/assistente/internal/session"
	"github.com/techsolutions/assistente/internal/store"
	"github.com/techsolutions/assistente/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	faqBase, err := faq.Load()
	if err != nil {
		slog.Error("Failed to load FAQ base", "error", err)
		os.Exit(1)
	}

	var classifier nlu.Classifier
	if cfg.OpenAI.APIKey != "" {
		classifier = nlu.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		slog.Info("Classifier initialized", "backend", "openai", "model", cfg.OpenAI.Model)
	} else {
		classifier = nlu.NewKeyword()
		slog.Info("Classifier initialized", "backend", "keyword")
	}

	sessions := session.NewStore()
	router := dialog.NewRouter(sessions, classifier, faqBase,
		flow.NewLead(repo.Leads()),
		flow.NewSupport(repo.Tickets()),
		flow.NewSchedule(repo.Bookings()),
	)

	rateLimiter := api.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	handler := api.NewHandler(router, repo, rateLimiter)
	wsHandler := api.NewWebSocketHandler(router, rateLimiter, cfg.AllowedOrigins, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	handler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Serve the embedded chat page.
	r.Handle("/web/*", web.Handler())
	r.Handle("/web", http.RedirectHandler("/web/", http.StatusMovedPermanently))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
