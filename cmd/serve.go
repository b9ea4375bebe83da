package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptversioning-backend/internal/api"
	"promptversioning-backend/internal/database"
	"promptversioning-backend/internal/repository"
	"promptversioning-backend/internal/services"
	"promptversioning-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveAddr   string
	skipMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overrides SERVER_ADDR")
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	if !skipMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	var cache *redis.Client
	if cfg.RedisEnabled() {
		cache, err = database.ConnectRedis(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect redis: %w", err)
		}
		defer cache.Close()
	} else {
		logger.L().Info("REDIS_HOST not set, running without cache and with an in-process token denylist")
	}

	var templates repository.TemplateRepository = repository.NewGormTemplateRepository(db)
	if cache != nil {
		templates = repository.NewCachedTemplateRepository(templates, cache, cfg.CacheTTL)
	}
	prompts := repository.NewGormPromptRepository(db)

	versioning := services.NewVersioningService(templates, prompts, services.WithRetention(cfg.VersionRetention))
	users := services.NewUserService(db, cache, cfg.JWTSecret)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		created, err := users.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		if created {
			logger.L().Info("admin user created", zap.String("username", cfg.AdminUsername))
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Dependencies{
		Templates:  templates,
		Versioning: versioning,
		Prompts:    services.NewPromptService(prompts, templates, versioning, cache),
		Users:      users,
		Denylist:   services.NewTokenDenylist(cache),
	})

	addr := cfg.ServerAddr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to run server: %w", err)
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
