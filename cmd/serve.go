package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/huey-app/huey/board"
	"github.com/huey-app/huey/config"
	"github.com/huey-app/huey/database"
	"github.com/huey-app/huey/repository"
	"github.com/huey-app/huey/router"
	"github.com/huey-app/huey/services"
	"github.com/huey-app/huey/utils"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not auto-migrate on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	if !skipMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}
	if cfg.IsDebug() {
		gin.SetMode(gin.DebugMode)
		if cfg.JWTSecret == "" {
			utils.InfoLogger.Warn("JWT_SECRET is empty, using the development signing key")
		}
	} else {
		gin.SetMode(cfg.GinMode)
	}

	blacklist, err := newBlacklist(ctx, cfg)
	if err != nil {
		return err
	}

	hub := board.NewHub()
	r := router.SetupRouter(router.Dependencies{DB: db, Config: cfg, Hub: hub, Blacklist: blacklist})

	sweeper := services.NewSweeper(repository.NewStore(db), cfg.SweepInterval, cfg.SweepSeatedAfter)
	if mem, ok := blacklist.(*utils.MemoryBlacklist); ok {
		sweeper.Blacklist = mem
	}
	if err := sweeper.Start(); err != nil {
		return err
	}
	defer func() {
		if err := sweeper.Stop(); err != nil {
			utils.ErrorLogger.WithError(err).Error("Sweeper shutdown failed")
		}
	}()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.InfoLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// newBlacklist shares revocations through Redis when REDIS_URL is set.
func newBlacklist(ctx context.Context, cfg *config.Config) (utils.TokenBlacklist, error) {
	if cfg.RedisURL == "" {
		return utils.NewMemoryBlacklist(), nil
	}
	bl, err := utils.NewRedisBlacklistFromURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if err := bl.Ping(ctx); err != nil {
		return nil, err
	}
	utils.InfoLogger.Info("Token revocations stored in Redis")
	return bl, nil
}
