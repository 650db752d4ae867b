package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/clanhub/api/internal/config"
	"github.com/forgo/clanhub/api/internal/database"
	"github.com/forgo/clanhub/api/internal/handler"
	"github.com/forgo/clanhub/api/internal/middleware"
	"github.com/forgo/clanhub/api/internal/repository"
	"github.com/forgo/clanhub/api/internal/service"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handler.SetStrictDecoding(cfg.API.StrictFields)

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	clanRepo := repository.NewClanRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	// Initialize services
	verifier := service.NewBcryptVerifier()

	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo:       userRepo,
		MembershipRepo: membershipRepo,
		Verifier:       verifier,
	})

	clanService := service.NewClanService(service.ClanServiceConfig{
		ClanRepo: clanRepo,
		Verifier: verifier,
	})

	membershipService := service.NewMembershipService(service.MembershipServiceConfig{
		MembershipRepo: membershipRepo,
		UserRepo:       userRepo,
		ClanRepo:       clanRepo,
	})

	renderService := service.NewRenderService(service.RenderServiceConfig{
		Graph: membershipRepo,
	})

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.API.RateLimit,
		Window: time.Minute,
		Burst:  20,
	})
	defer rateLimiter.Stop()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(userService, renderService)
	userHandler := handler.NewUserHandler(userService, renderService)
	clanHandler := handler.NewClanHandler(clanService, renderService)
	memberHandler := handler.NewMemberHandler(membershipService, renderService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Auth endpoints
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/authorize", authHandler.Authorize)
	mux.HandleFunc("GET /v1/auth/check", authHandler.Check)

	// User endpoints
	mux.HandleFunc("GET /v1/users", userHandler.List)
	mux.HandleFunc("POST /v1/users", userHandler.Create)
	mux.HandleFunc("POST /v1/users/search", userHandler.Search)
	mux.HandleFunc("GET /v1/users/{id}", userHandler.Get)
	mux.HandleFunc("PATCH /v1/users/{id}", userHandler.Update)
	mux.HandleFunc("DELETE /v1/users/{id}", userHandler.Delete)
	mux.HandleFunc("GET /v1/users/{id}/clans", userHandler.Clans)

	// Clan endpoints
	mux.HandleFunc("GET /v1/clans", clanHandler.List)
	mux.HandleFunc("POST /v1/clans", clanHandler.Create)
	mux.HandleFunc("GET /v1/clans/check", clanHandler.Check)
	mux.HandleFunc("POST /v1/clans/bulk", clanHandler.Bulk)
	mux.HandleFunc("POST /v1/clans/authorize", clanHandler.Authorize)
	mux.HandleFunc("GET /v1/clans/{id}", clanHandler.Get)
	mux.HandleFunc("PATCH /v1/clans/{id}", clanHandler.Update)
	mux.HandleFunc("DELETE /v1/clans/{id}", clanHandler.Delete)

	// Membership endpoints
	mux.HandleFunc("GET /v1/clans/{id}/users", memberHandler.ListMembers)
	mux.HandleFunc("POST /v1/clans/{id}/users", memberHandler.AddMembers)
	mux.HandleFunc("DELETE /v1/clans/{id}/users", memberHandler.RemoveMembers)
	mux.HandleFunc("DELETE /v1/clans/{id}/users/{user}", memberHandler.RemoveMember)
	mux.HandleFunc("GET /v1/clans/{id}/admins", memberHandler.ListAdmins)
	mux.HandleFunc("POST /v1/clans/{id}/admins", memberHandler.AddAdmins)
	mux.HandleFunc("DELETE /v1/clans/{id}/admins/{user}", memberHandler.RemoveAdmin)

	// Apply global middleware
	middlewares := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	}
	if cfg.API.RateLimit > 0 {
		middlewares = append(middlewares, middleware.RateLimit(rateLimiter))
	}
	middlewares = append(middlewares, middleware.Compress)

	wrapped := middleware.Chain(mux, middlewares...)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
