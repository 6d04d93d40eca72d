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

	"github.com/pallicare/pallicare/internal/config"
	"github.com/pallicare/pallicare/internal/domain/appointment"
	"github.com/pallicare/pallicare/internal/domain/bed"
	"github.com/pallicare/pallicare/internal/domain/diagnosis"
	"github.com/pallicare/pallicare/internal/domain/document"
	"github.com/pallicare/pallicare/internal/domain/notify"
	"github.com/pallicare/pallicare/internal/domain/patient"
	"github.com/pallicare/pallicare/internal/domain/settings"
	"github.com/pallicare/pallicare/internal/domain/treatment"
	"github.com/pallicare/pallicare/internal/platform/auth"
	"github.com/pallicare/pallicare/internal/platform/blobstore"
	"github.com/pallicare/pallicare/internal/platform/db"
	"github.com/pallicare/pallicare/internal/platform/line"
	"github.com/pallicare/pallicare/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pallicare-server",
		Short: "Palliative care department API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(digestCmd())

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

func digestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Daily LINE digest",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the daily digest once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			lineClient := line.NewClient(line.ClientConfig{ChannelAccessToken: cfg.LineChannelAccessToken})
			digest := notify.NewDigest(
				appointment.NewRepo(pool),
				lineClient,
				notify.NewRepo(pool),
				cfg.LineRecipients(),
				loc,
				logger,
			)

			run, err := digest.Run(ctx, notify.TriggerManual)
			if err != nil {
				return err
			}
			fmt.Printf("Digest run %s: %s (%d appointments)\n", run.ID, run.Outcome, run.EventCount)
			return nil
		},
	}
	cmd.AddCommand(runCmd)

	return cmd
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load timezone")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Document storage. Without a configured bucket endpoint the server
	// still runs, keeping uploads in memory for local development.
	var store blobstore.Store
	if cfg.StorageEndpoint != "" || cfg.IsProduction() {
		store, err = blobstore.NewS3Store(ctx, blobstore.S3Config{
			Endpoint:      cfg.StorageEndpoint,
			Region:        cfg.StorageRegion,
			Bucket:        cfg.StorageBucket,
			DefaultExpiry: time.Duration(cfg.SignedURLTTLSeconds) * time.Second,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to object storage")
		}
	} else {
		logger.Warn().Msg("no STORAGE_ENDPOINT configured, using in-memory document store")
		store = blobstore.NewMemoryStore()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// The LINE webhook authenticates with the channel signature, so it is
	// mounted before the bearer-token middleware takes effect.
	if cfg.LineChannelSecret != "" {
		webhook := notify.NewWebhookHandler(cfg.LineChannelSecret, logger)
		webhook.RegisterRoutes(e)
	}

	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
			JWKSURL:  cfg.AuthJWKSURL,
		}))
	}
	apiV1.Use(middleware.Audit(logger))

	// Domain wiring
	patientRepo := patient.NewRepo(pool)
	patientHandler := patient.NewHandler(patient.NewService(patientRepo))
	patientHandler.RegisterRoutes(apiV1)

	apptRepo := appointment.NewRepo(pool)
	apptHandler := appointment.NewHandler(appointment.NewService(apptRepo, loc))
	apptHandler.RegisterRoutes(apiV1)

	dxHandler := diagnosis.NewHandler(diagnosis.NewService(diagnosis.NewRepo(pool)))
	dxHandler.RegisterRoutes(apiV1)

	txHandler := treatment.NewHandler(treatment.NewService(treatment.NewRepo(pool)))
	txHandler.RegisterRoutes(apiV1)

	bedHandler := bed.NewHandler(bed.NewService(bed.NewRepo(pool)))
	bedHandler.RegisterRoutes(apiV1)

	docSvc := document.NewService(document.NewRepo(pool), store,
		time.Duration(cfg.SignedURLTTLSeconds)*time.Second)
	docHandler := document.NewHandler(docSvc)
	docHandler.RegisterRoutes(apiV1)

	settingsHandler := settings.NewHandler(settings.NewService(settings.NewRepo(pool)))
	settingsHandler.RegisterRoutes(apiV1)

	notifyRepo := notify.NewRepo(pool)
	if cfg.LineChannelAccessToken != "" {
		lineClient := line.NewClient(line.ClientConfig{ChannelAccessToken: cfg.LineChannelAccessToken})
		digest := notify.NewDigest(apptRepo, lineClient, notifyRepo, cfg.LineRecipients(), loc, logger)
		notifyHandler := notify.NewHandler(digest, notifyRepo)
		notifyHandler.RegisterRoutes(apiV1)

		schedCtx, schedCancel := context.WithCancel(ctx)
		defer schedCancel()
		scheduler := notify.NewScheduler(digest, cfg.DigestHour, loc, logger)
		go scheduler.Start(schedCtx)
	} else {
		logger.Warn().Msg("LINE channel not configured, daily digest disabled")
	}

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
