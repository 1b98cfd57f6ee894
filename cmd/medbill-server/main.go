package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medbill/medbill/internal/config"
	"github.com/medbill/medbill/internal/domain/audit"
	"github.com/medbill/medbill/internal/domain/billingcode"
	"github.com/medbill/medbill/internal/domain/billingentry"
	"github.com/medbill/medbill/internal/domain/clinic"
	"github.com/medbill/medbill/internal/domain/invoice"
	"github.com/medbill/medbill/internal/domain/patient"
	"github.com/medbill/medbill/internal/domain/receivable"
	"github.com/medbill/medbill/internal/domain/report"
	"github.com/medbill/medbill/internal/domain/timecard"
	"github.com/medbill/medbill/internal/domain/todo"
	"github.com/medbill/medbill/internal/domain/user"
	"github.com/medbill/medbill/internal/gateway"
	"github.com/medbill/medbill/internal/platform/auth"
	"github.com/medbill/medbill/internal/platform/db"
	"github.com/medbill/medbill/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medbill-server",
		Short: "Medical billing back-office API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware([]byte(cfg.JWTSecret)))
	}

	// Audit trail: persisted rows plus structured log lines
	auditSvc := audit.NewService(audit.NewRepoPG(pool))
	e.Use(middleware.Audit(logger, auditSvc))

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")

	// Remote data gateway shared by grid-bound domains and reports
	gw := gateway.NewPG(pool)

	// Clinic domain (clinics, providers, payments, per-clinic settings)
	settings := clinic.NewSettings(gw)
	clinicSvc := clinic.NewService(
		clinic.NewRepoPG(pool),
		clinic.NewProviderRepoPG(pool),
		clinic.NewPaymentRepoPG(pool),
		settings,
	)
	clinic.NewHandler(clinicSvc).RegisterRoutes(apiV1)

	// Patient domain
	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)

	// Billing entries (editable grid backed by the gateway)
	billingSvc := billingentry.NewService(billingentry.NewRepoPG(pool), gw, patientSvc, settings, logger)
	billingentry.NewHandler(billingSvc).RegisterRoutes(apiV1)

	// Accounts receivable
	arSvc := receivable.NewService(receivable.NewRepoPG(pool), gw, settings, logger)
	receivable.NewHandler(arSvc).RegisterRoutes(apiV1)

	// Invoices
	invoiceSvc := invoice.NewService(invoice.NewRepoPG(pool))
	invoice.NewHandler(invoiceSvc).RegisterRoutes(apiV1)

	// Timecards
	timecardSvc := timecard.NewService(timecard.NewRepoPG(pool))
	timecard.NewHandler(timecardSvc).RegisterRoutes(apiV1)

	// Todos / claim issues
	todoSvc := todo.NewService(todo.NewRepoPG(pool))
	todo.NewHandler(todoSvc).RegisterRoutes(apiV1)

	// Users and roles
	userSvc := user.NewService(user.NewRepoPG(pool))
	user.NewHandler(userSvc).RegisterRoutes(apiV1)

	// Billing codes
	codeSvc := billingcode.NewService(billingcode.NewRepoPG(pool))
	billingcode.NewHandler(codeSvc).RegisterRoutes(apiV1)

	// Audit log listing
	audit.NewHandler(auditSvc).RegisterRoutes(apiV1)

	// Reports
	reportSvc := report.NewService(gw, clinic.NewProviderRepoPG(pool), clinic.NewPaymentRepoPG(pool), logger)
	report.NewHandler(reportSvc).RegisterRoutes(apiV1)

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
