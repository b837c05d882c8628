package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/auth"
	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/config"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/handlers"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/SAP-F-2025/exam-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "exam-service",
		Short:        "Exam management backend",
		SilenceUsage: true,
	}

	serve := serveCmd()
	root.AddCommand(serve, migrateCmd(), seedSWOTCmd(), createUserCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().String("port", "", "Listen port (overrides PORT)")
	cmd.Flags().Bool("migrate", true, "Migrate the schema before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := postgres.Migrate(app.db, models.AllModels()...); err != nil {
				return err
			}
			app.logger.Info("Schema migrated")
			return nil
		},
	}
}

func seedSWOTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-swot",
		Short: "Install the default SWOT questions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			added, err := app.services.SWOT().SeedQuestions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d SWOT questions added\n", added)
			return nil
		},
	}
}

func createUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Provision a professor, student or superuser account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			req := &services.CreateUserRequest{}
			req.Username, _ = f.GetString("username")
			req.Password, _ = f.GetString("password")
			req.Role, _ = f.GetString("role")
			req.FullName, _ = f.GetString("full-name")
			req.Email, _ = f.GetString("email")
			if studentID, _ := f.GetString("student-id"); studentID != "" {
				req.StudentID = &studentID
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			user, err := app.services.Auth().CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %q (id %d)\n", user.Role, user.Username, user.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.String("username", "", "Login name (required)")
	f.String("password", "", "Password (required)")
	f.String("role", string(models.RoleProfessor), "professor, student or superuser")
	f.String("full-name", "", "Display name")
	f.String("email", "", "Email address")
	f.String("student-id", "", "Student identifier for student accounts")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := postgres.Migrate(app.db, models.AllModels()...); err != nil {
			return err
		}
	}

	port := app.cfg.Port
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}

	if app.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.ContextLogger(app.log), utils.LoggerMiddleware(app.log))
	handlers.NewHandlerManager(app.services, app.log).SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", "port", port, "environment", app.cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// app holds the wiring shared by every command.
type app struct {
	cfg       *config.Config
	log       utils.Logger
	logger    *slog.Logger
	db        *gorm.DB
	publisher events.EventPublisher
	closers   []func() error
	services  services.ServiceManager
}

func newApp(ctx context.Context) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := utils.NewLogger(cfg.Environment)
	logger := utils.ToSlogLogger(log)
	a := &app{cfg: cfg, log: log, logger: logger}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	cacheService := cache.NewNoopCache()
	if cfg.CacheEnabled {
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled", "error", err)
		} else {
			cacheService = cache.NewRedisCache(client, "exam-service", logger)
			a.closers = append(a.closers, client.Close)
		}
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	a.publisher = publisher
	a.closers = append(a.closers, publisher.Close)

	tokens := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})

	a.services = services.NewServiceManager(services.Dependencies{
		Repo:      postgres.NewRepository(db),
		DB:        db,
		Tokens:    tokens,
		Cache:     cacheService,
		CacheTTL:  cfg.CacheTTL,
		Publisher: publisher,
		Logger:    logger,
		Validator: validator.New(),
	})
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Failed to release resource", "error", err)
		}
	}
}
