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

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/signup/internal/config"
	"github.com/xxxsen/signup/internal/db"
	"github.com/xxxsen/signup/internal/handler"
	"github.com/xxxsen/signup/internal/job"
	"github.com/xxxsen/signup/internal/middleware"
	"github.com/xxxsen/signup/internal/pkg/urls"
	"github.com/xxxsen/signup/internal/repo"
	"github.com/xxxsen/signup/internal/schedule"
	"github.com/xxxsen/signup/internal/service"
	"github.com/xxxsen/signup/internal/ui"
)

const routePrefix = "/accounts"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "signup",
		Short: "account registration server",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the registration server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer conn.Close()
			return runServer(cfg, conn)
		},
	}

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "delete accounts that were never activated",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer conn.Close()
			cleanup := job.NewInactiveUserCleanupJob(repo.NewUserRepo(conn), time.Hour*time.Duration(cfg.Cleanup.MaxAgeHours))
			return schedule.RunOnce(cmd.Context(), cleanup)
		},
	}

	rootCmd.AddCommand(runCmd, cleanupCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func bootstrap(configPath string) (*config.Config, *sql.DB, error) {
	if configPath == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return cfg, conn, nil
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("presenter", cfg.Activation.Presenter),
	)

	secret := []byte(cfg.SecretKey)
	routes := urls.NewRegistry(routePrefix)
	pages, err := ui.NewPages()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	userRepo := repo.NewUserRepo(conn)
	activationService := service.NewActivationService(userRepo, secret, time.Hour*time.Duration(cfg.Activation.TTLHours), routes, cfg.BaseURL)
	signupService := service.NewSignupService(userRepo, activationService, service.NewLogNotifier())
	authService := service.NewAuthService(userRepo, secret, time.Hour*time.Duration(cfg.AccessTTLHours))

	var presenter handler.ActivationPresenter
	switch cfg.Activation.Presenter {
	case config.PresenterPlain:
		presenter = handler.NewPlainTextPresenter()
	default:
		presenter = handler.NewTemplatePresenter(pages, routes)
	}

	deps := handler.RouterDeps{
		Signup:          handler.NewSignupHandler(signupService, pages, routes),
		Login:           handler.NewLoginHandler(authService, pages, routes),
		Activation:      handler.NewActivationHandler(activationService, presenter),
		Routes:          routes,
		JWTSecret:       secret,
		RateLimitWindow: time.Second * time.Duration(cfg.RateLimit.WindowSeconds),
		RateLimitKeys:   cfg.RateLimit.MaxKeys,
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		routePrefix,
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Cleanup.Enable {
		scheduler := schedule.NewCronScheduler()
		cleanup := job.NewInactiveUserCleanupJob(userRepo, time.Hour*time.Duration(cfg.Cleanup.MaxAgeHours))
		if err := scheduler.AddJob(cleanup, cfg.Cleanup.Cron); err != nil {
			return fmt.Errorf("schedule cleanup: %w", err)
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", addr))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
