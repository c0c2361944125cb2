package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/shedula/shedula/internal/config"
	"github.com/shedula/shedula/internal/domain/appointment"
	"github.com/shedula/shedula/internal/domain/directory"
	"github.com/shedula/shedula/internal/domain/order"
	"github.com/shedula/shedula/internal/domain/prescription"
	"github.com/shedula/shedula/internal/platform/auth"
	"github.com/shedula/shedula/internal/platform/db"
	"github.com/shedula/shedula/internal/platform/kvstore"
	"github.com/shedula/shedula/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shedula-server",
		Short: "Shedula appointment booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

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

			_, pool, err := connect()
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(context.Background())
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

			_, pool, err := connect()
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(context.Background())
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

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the catalogue tables with demo doctors and medicines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := connect()
			if err != nil {
				return err
			}
			defer pool.Close()

			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			if err := directory.Seed(context.Background(), pool, cfg.SlotBias, rng); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Println("Demo catalogue seeded.")
			return nil
		},
	}
}

// connect loads config and opens a postgres pool for the one-shot commands.
func connect() (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required for this command")
	}
	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

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

	if cfg.IsDev() && cfg.JWTSigningKey == "" {
		logger.Warn().Msg("running with permissive dev auth; set JWT_SIGNING_KEY or AUTH_ISSUER for real tokens")
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.JWTSigningKey),
		}))
	}

	apiV1 := e.Group("/api/v1")

	// Storage-mode wiring. Postgres is the remote record service; local
	// keeps demo data on an injected key-value surface.
	switch cfg.StorageMode {
	case config.StorageModePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")

		e.GET("/health", db.HealthHandler(pool))

		doctorRepo := directory.NewDoctorRepoPG(pool)
		medicineRepo := directory.NewMedicineRepoPG(pool)
		dirSvc := directory.NewService(doctorRepo, medicineRepo, logger)
		directory.NewHandler(dirSvc).RegisterRoutes(apiV1)

		apptRepo := appointment.NewRepoPG(pool)
		apptSvc := appointment.NewService(apptRepo, apptRepo, doctorRepo, logger)
		appointment.NewHandler(apptSvc).RegisterRoutes(apiV1)

		orderRepo := order.NewRepoPG(pool)
		orderSvc := order.NewService(orderRepo, medicineRepo, logger)
		order.NewHandler(orderSvc).RegisterRoutes(apiV1)

		rxRepo := prescription.NewRepoPG(pool)
		rxSvc := prescription.NewService(rxRepo, logger)
		prescription.NewHandler(rxSvc).RegisterRoutes(apiV1)

	case config.StorageModeLocal:
		var kv kvstore.Store
		fileStore, err := kvstore.NewFileStore(afero.NewOsFs(), cfg.LocalDataDir)
		if err != nil {
			logger.Warn().Err(err).Str("dir", cfg.LocalDataDir).
				Msg("local data dir unavailable, storage degrades to no-op")
			kv = kvstore.Unavailable{}
		} else {
			kv = fileStore
		}

		e.GET("/health", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]string{"status": "ok", "storage": "local"})
		})

		demo := directory.NewDemoRepo(cfg.SlotBias, time.Now().UnixNano())
		dirSvc := directory.NewService(demo, demo.Medicines(), logger)
		directory.NewHandler(dirSvc).RegisterRoutes(apiV1)

		// No slot reservation in local mode; slots are demo data.
		apptStore := appointment.NewLocalStore(kv, logger)
		apptSvc := appointment.NewService(apptStore, nil, demo, logger)
		appointment.NewHandler(apptSvc).RegisterRoutes(apiV1)

		orderStore := order.NewLocalStore(kv, logger)
		orderSvc := order.NewService(orderStore, demo.Medicines(), logger)
		order.NewHandler(orderSvc).RegisterRoutes(apiV1)

		logger.Info().Str("dir", cfg.LocalDataDir).
			Msg("local storage mode: prescriptions are unavailable without postgres")

	default:
		logger.Fatal().Str("mode", cfg.StorageMode).Msg("unknown storage mode")
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()
	logger.Info().Str("port", cfg.Port).Str("storage", cfg.StorageMode).Msg("shedula server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
	return nil
}
