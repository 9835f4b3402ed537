package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/cache"
	"github.com/BrandkitHQ/brandkit_api/internal/config"
	"github.com/BrandkitHQ/brandkit_api/internal/database"
	"github.com/BrandkitHQ/brandkit_api/internal/handler"
	"github.com/BrandkitHQ/brandkit_api/internal/middleware"
	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/repository"
	"github.com/BrandkitHQ/brandkit_api/internal/service"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
	"github.com/BrandkitHQ/brandkit_api/internal/worker"
	"github.com/BrandkitHQ/brandkit_api/pkg/stripe"
)

// main is the application entrypoint for the Brandkit admin API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting brandkit api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	statsCache := cache.NewStatsCache(redisClient)

	// 4. Initialize Stripe client
	if cfg.Stripe.SecretKey == "" {
		log.Warn().Msg("Stripe secret key not configured - billing calls will fail")
	}
	stripeClient := stripe.NewClient(cfg.Stripe.SecretKey)

	// 5. Initialize repositories
	adminRepo := repository.NewAdminUserRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	impRepo := repository.NewImpersonationRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	planRepo := repository.NewPlanRepository(db)
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	// 6. Initialize services
	auditSvc := service.NewAuditService(auditRepo)
	permSvc := service.NewPermissionService(adminRepo)
	adminAuthSvc := service.NewAdminAuthService(adminRepo)
	adminUserSvc := service.NewAdminUserService(adminRepo, auditSvc)
	impSvc := service.NewImpersonationService(impRepo, cfg.Impersonation.DefaultDuration)
	creditSvc := service.NewCreditService(creditRepo)
	planSvc := service.NewPlanService(planRepo)
	userSvc := service.NewUserService(userRepo, creditRepo, subRepo)
	billingSvc := service.NewBillingService(&cfg.Stripe, stripeClient, userRepo, subRepo, creditRepo, planRepo, auditSvc)
	dashboardSvc := service.NewDashboardService(userRepo, subRepo, creditRepo, impRepo, statsCache)
	diagSvc := service.NewDiagnosticsService(db, redisClient, stripeClient, permSvc, auditSvc, dashboardSvc, impRepo)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:        handler.NewHealthHandler(db, redisClient),
		Auth:          handler.NewAuthHandler(adminAuthSvc),
		AdminUser:     handler.NewAdminUserHandler(adminUserSvc),
		User:          handler.NewUserHandler(userSvc),
		Audit:         handler.NewAuditHandler(auditSvc),
		Impersonation: handler.NewImpersonationHandler(impSvc),
		Credit:        handler.NewCreditHandler(creditSvc),
		Plan:          handler.NewPlanHandler(planSvc, billingSvc),
		Dashboard:     handler.NewDashboardHandler(dashboardSvc),
		Diagnostics:   handler.NewDiagnosticsHandler(diagSvc, permSvc, adminUserSvc, auditSvc, adminRepo),
		StripeWebhook: handler.NewStripeWebhookHandler(billingSvc, cfg.Stripe.WebhookSecret),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()
	permMw := middleware.NewPermissionMiddleware(adminRepo)
	loginLimiter := middleware.NewLoginRateLimiter()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw, permMw, loginLimiter)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewSweepWorker(impSvc, cfg.Worker.SweepInterval, cfg.Impersonation.SweepRetention).Start(ctx)
	go worker.NewPlanSyncWorker(billingSvc, cfg.Worker.PlanSyncInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	AdminUser     *handler.AdminUserHandler
	User          *handler.UserHandler
	Audit         *handler.AuditHandler
	Impersonation *handler.ImpersonationHandler
	Credit        *handler.CreditHandler
	Plan          *handler.PlanHandler
	Dashboard     *handler.DashboardHandler
	Diagnostics   *handler.DiagnosticsHandler
	StripeWebhook *handler.StripeWebhookHandler
}

// setupRoutes registers all routes.
func setupRoutes(
	router *gin.Engine,
	handlers *Handlers,
	jwtMiddleware *middleware.JWTMiddleware,
	permMiddleware *middleware.PermissionMiddleware,
	loginLimiter *middleware.LoginRateLimiter,
) {
	// Billing webhook (authenticated by signature, not JWT)
	router.POST("/webhook/stripe", handlers.StripeWebhook.HandleStripeEvent)

	router.GET("/v1/health", handlers.Health.GetHealth)

	// Impersonation token exchange: the token itself is the credential.
	router.POST("/v1/impersonation/validate", handlers.Impersonation.Validate)

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", loginLimiter.Handle(), handlers.Auth.Login)
	admin.Use(jwtMiddleware.Handle())
	{
		// Dashboard and diagnostics
		admin.GET("/dashboard", handlers.Dashboard.GetDashboard)
		admin.GET("/tests", permMiddleware.Require(models.PermRunDiagnostics), handlers.Diagnostics.RunTests)

		// Admin account management
		admin.GET("/admins", permMiddleware.Require(models.PermManageAdmins), handlers.AdminUser.ListAdmins)
		admin.POST("/admins", permMiddleware.Require(models.PermManageAdmins), handlers.AdminUser.CreateAdmin)
		admin.PUT("/admins/:id", permMiddleware.Require(models.PermManageAdmins), handlers.AdminUser.UpdateAdmin)
		admin.DELETE("/admins/:id", permMiddleware.Require(models.PermManageAdmins), handlers.AdminUser.DeactivateAdmin)

		// End-user management
		admin.GET("/users", permMiddleware.Require(models.PermManageUsers), handlers.User.ListUsers)
		admin.GET("/users/:id", permMiddleware.Require(models.PermManageUsers), handlers.User.GetUser)

		// Credit and plan adjustments
		admin.POST("/users/:id/credits", permMiddleware.Require(models.PermManageCredits), handlers.Credit.AdjustCredits)
		admin.PUT("/users/:id/plan", permMiddleware.Require(models.PermManagePlans), handlers.Credit.ChangePlan)

		// Plan catalog
		admin.GET("/plans", handlers.Plan.ListPlans)
		admin.POST("/plans/sync", permMiddleware.Require(models.PermManagePlans), handlers.Plan.SyncPlans)

		// Impersonation
		admin.POST("/impersonation", permMiddleware.Require(models.PermImpersonate), handlers.Impersonation.Issue)
		admin.DELETE("/impersonation", permMiddleware.Require(models.PermImpersonate), handlers.Impersonation.End)

		// Audit trail
		admin.GET("/audit", permMiddleware.Require(models.PermViewAuditLog), handlers.Audit.ListAuditLog)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
