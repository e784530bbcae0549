package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yash3470/art-table/internal/config"
	"github.com/Yash3470/art-table/internal/server"
	"github.com/Yash3470/art-table/pkg/cache"
	"github.com/Yash3470/art-table/pkg/logging"
	"github.com/Yash3470/art-table/pkg/source"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// serveCmd starts the session API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the session API server",
	Long: `Start the art-table session API server.

The server will:
  - Load configuration from the specified YAML file
  - Connect to redis for page caching when configured
  - Serve the session API on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  art-table serve -c config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Page cache is optional; without redis every page load hits the source.
	var cacheManager *cache.Manager
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		defer redisClient.Close()
		cacheManager = cache.NewManager(redisClient)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to redis")
	} else {
		logger.Warn().Msg("No redis configured - page caching disabled")
	}

	srcCfg := source.DefaultConfig(cfg.Source.Endpoint)
	srcCfg.PageSize = cfg.Source.PageSize
	srcCfg.Fields = cfg.Source.Fields
	srcCfg.Timeout = cfg.Source.Timeout.Std()
	srcCfg.Cache = cacheManager
	srcCfg.CacheTTL = cfg.Redis.CacheTTL.Std()

	src, err := source.New(srcCfg)
	if err != nil {
		return fmt.Errorf("failed to create source client: %w", err)
	}

	srv := server.New(src)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info().
		Int("port", cfg.Server.Port).
		Str("endpoint", cfg.Source.Endpoint).
		Int("page_size", cfg.Source.PageSize).
		Str("session_id", srv.Session().ID().String()).
		Msg("Starting art-table server")

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info().Msg("Shutdown complete")
	return nil
}
