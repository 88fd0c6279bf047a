package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task_tracker/internal/config"
	"task_tracker/internal/db"
	httpServer "task_tracker/internal/http"
	"task_tracker/internal/http/middleware"
	"task_tracker/internal/logger"
	"task_tracker/internal/repository"
	"task_tracker/internal/service"
	"task_tracker/internal/ws"

	"github.com/spf13/cobra"
)

func NewServeCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Start the Task Tracker HTTP API.

Configuration is read from the environment (and .env when present).
The schema is created on startup if it does not exist.

Example:
  tasktracker serve
  DATABASE_URL=postgres://localhost/tasks tasktracker serve --port 9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.AppPort = port
			}
			logger.Init(cfg.LogLevel, cfg.LogFormat)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides APP_PORT)")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	repo, err := repository.New(store)
	if err != nil {
		return err
	}

	hub := ws.NewHub()
	defer hub.Close()

	opts := httpServer.Options{
		Version:       Version,
		AllowedOrigin: cfg.AllowedOrigin,
		RateLimit:     cfg.APIRateLimit,
		RateWindow:    cfg.APIRateWindow,
		Hub:           hub,
	}

	if rl := middleware.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rl != nil {
		defer rl.Close()
		opts.Limiter = rl
		logger.Info("rate limiter: redis", "addr", cfg.RedisAddr)
	} else {
		opts.Limiter = middleware.NewMemoryLimiter()
		logger.Info("rate limiter: in-memory")
	}

	if cfg.AuthEnabled() {
		auth, err := service.NewAuthenticator(cfg.JWTSecret)
		if err != nil {
			return err
		}
		opts.Auth = auth
	}

	r := httpServer.NewRouter(service.NewTaskService(repo, hub), opts)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "port", cfg.AppPort, "driver", store.Driver, "auth", cfg.AuthEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
