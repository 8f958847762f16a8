package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	applog "perfumeria/internal/log"
	"perfumeria/internal/redisstore"
	"perfumeria/internal/repos"
	"perfumeria/internal/server"
	"perfumeria/internal/services"
	"perfumeria/internal/storage"
)

// perfumeria serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, db, err := boot()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := cfg.Validate(); err != nil {
			return err
		}

		if cfg.SeedDemo {
			if err := repos.SeedDemo(db); err != nil {
				return err
			}
		}

		auth := services.NewAuthService(repos.NewUserRepo(db), cfg.SessionSecret, cfg.SessionTTL, cfg.AdminEmail)
		if cfg.AdminPassword != "" {
			if _, err := auth.EnsureAdmin(ctx, "Administrador", cfg.AdminPassword); err != nil {
				return err
			}
			applog.Info(nil, "auth.admin.ready", map[string]any{"email": cfg.AdminEmail})
		}

		disk, err := storage.New(ctx, cfg)
		if err != nil {
			return err
		}
		applog.Info(nil, "storage.ready", map[string]any{"disk": cfg.StorageDisk})

		opts := server.Options{Config: cfg, DB: db, Auth: auth, Disk: disk}
		if cfg.RedisAddr != "" {
			rs := redisstore.New(cfg.RedisAddr, "perfumeria:")
			if err := rs.Ping(ctx); err != nil {
				return err
			}
			defer rs.Close()
			opts.Storage = rs
			applog.Info(nil, "redis.ready", map[string]any{"addr": cfg.RedisAddr})
		}

		app := server.New(opts)
		applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "metrics": cfg.MetricsToken != ""})
		return listen(ctx, app, ":"+cfg.Port)
	},
}

func listen(ctx context.Context, app *fiber.App, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- app.Listen(addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		applog.Info(nil, "server.shutdown", nil)
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(sctx)
	}
}
