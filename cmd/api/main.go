package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dextersy/label-dashboard/internal/auth"
	"github.com/dextersy/label-dashboard/internal/background"
	"github.com/dextersy/label-dashboard/internal/config"
	"github.com/dextersy/label-dashboard/internal/database"
	"github.com/dextersy/label-dashboard/internal/handlers"
	middlewareCustom "github.com/dextersy/label-dashboard/internal/middleware"
	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/dextersy/label-dashboard/internal/remote"
	"github.com/dextersy/label-dashboard/internal/repositories"
	"github.com/dextersy/label-dashboard/internal/routes"
	"github.com/dextersy/label-dashboard/internal/services"
	pkgauth "github.com/dextersy/label-dashboard/pkg/auth"
	pkglogger "github.com/dextersy/label-dashboard/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	loginAttemptRepo := repositories.NewLoginAttemptRepository(db)
	brandRepo := repositories.NewBrandRepository(db)
	songwriterRepo := repositories.NewSongwriterRepository(db)
	ticketTypeRepo := repositories.NewTicketTypeRepository(db)
	emailLogRepo := repositories.NewEmailLogRepository(db)

	// Initialize cleanup manager
	cleanupManager := background.NewCleanupManager(loginAttemptRepo, logger, cfg.Auth.CleanupInterval)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.SystemTokenExpiry,
		cfg.Auth.TenantTokenExpiry,
	)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Lockout service
	lockoutService := services.NewLockoutService(loginAttemptRepo, services.LockoutConfig{
		FailureThreshold: cfg.Auth.FailureThreshold,
		LockWindow:       cfg.Auth.LockWindow,
	}, logger)

	// AWS SES email service
	emailService, err := services.NewAWSSESEmailService(cfg.Email, cfg.Auth.InviteTokenExpiry, cfg.Auth.ResetTokenExpiry, emailLogRepo, logger)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	systemAuthService := services.NewSystemAuthService(userRepo, lockoutService, tokenManager, emailService, logger, auditLogger)
	userService := services.NewUserService(userRepo, emailService, services.UserServiceConfig{
		InviteTokenExpiry: cfg.Auth.InviteTokenExpiry,
		ResetTokenExpiry:  cfg.Auth.ResetTokenExpiry,
	}, logger, auditLogger)
	brandService := services.NewBrandService(
		brandRepo,
		net.DefaultResolver,
		remote.NewSSHRunner(cfg.SSH),
		cfg.SSH.TargetHost,
		logger,
		auditLogger,
	)
	songwriterService := services.NewSongwriterService(songwriterRepo, logger)
	ticketTypeService := services.NewTicketTypeService(ticketTypeRepo, logger)

	// Initialize handlers
	systemAuthHandler := handlers.NewSystemAuthHandler(systemAuthService)
	userHandler := handlers.NewUserHandler(userService, tokenManager)
	brandHandler := handlers.NewBrandHandler(brandService, emailLogRepo)
	songwriterHandler := handlers.NewSongwriterHandler(songwriterService)
	ticketTypeHandler := handlers.NewTicketTypeHandler(ticketTypeService)

	// Bootstrap first system user if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureSystemUser(ctx, userRepo, logger); err != nil {
		logger.Error("failed to ensure system user", slog.Any("error", err))
	}
	cancel()

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.NewCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, systemAuthHandler, userHandler, brandHandler, songwriterHandler, ticketTypeHandler, tokenManager, userRepo)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureSystemUser creates the first system console account if SYSTEM_EMAIL
// and SYSTEM_PASSWORD are set
func ensureSystemUser(ctx context.Context, userRepo *repositories.UserRepository, logger *slog.Logger) error {
	systemEmail := os.Getenv("SYSTEM_EMAIL")
	systemPassword := os.Getenv("SYSTEM_PASSWORD")

	if systemEmail == "" || systemPassword == "" {
		logger.Info("no SYSTEM_EMAIL or SYSTEM_PASSWORD set, skipping system user creation")
		return nil
	}

	// Check if the account already exists
	_, err := userRepo.GetByEmail(ctx, systemEmail)
	if err == nil {
		logger.Info("system user already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if system user exists: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(systemPassword)
	if err != nil {
		return fmt.Errorf("failed to hash system user password: %w", err)
	}

	system := &models.User{
		Email:        systemEmail,
		PasswordHash: hashedPassword,
		Name:         "System Administrator",
		IsAdmin:      true,
		IsSystemUser: true,
		Status:       models.UserStatusActive,
	}

	if _, err := userRepo.Create(ctx, system); err != nil {
		return fmt.Errorf("failed to create system user: %w", err)
	}

	logger.Info("system user created successfully")
	return nil
}
