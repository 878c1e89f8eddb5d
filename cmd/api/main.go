package main

import (
	"KolBD/internal/api/config"
	"KolBD/internal/pkg/database"
	"KolBD/internal/pkg/llm"
	"KolBD/internal/pkg/logger"
	"KolBD/internal/pkg/minio"
	"KolBD/internal/pkg/redis"
	"KolBD/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var envFile string

func main() {
	root := &cobra.Command{
		Use:          "kolbd",
		Short:        "KOL BD tool backend",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVar(&envFile, "env", config.DefaultEnvFile, "path of the .env file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	})
	root.AddCommand(migrateCmd(), adminCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap 加载配置、初始化日志并连接数据库
func bootstrap() (*config.Config, *gorm.DB, database.Dialect, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg)

	db, dialect, err := database.NewGormDB(cfg)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to create database connection: %w", err)
	}
	return cfg, db, dialect, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, db, dialect, err := bootstrap()
	if err != nil {
		return err
	}

	if err = database.Migrate(db, dialect); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Redis 连接，未配置时黑名单、翻译缓存、插件 Token 降级
	if cfg.RedisEnabled() {
		if err = redis.InitRedis(cfg.Redis); err != nil {
			return fmt.Errorf("failed to create redis connection: %w", err)
		}
		defer func() { _ = redis.Close() }()
	} else {
		log.Warn("redis_addr is empty, redis backed features are disabled")
	}

	// MinIO 连接
	if cfg.MinIOEnabled() {
		if err = minio.Init(cfg.MinIO); err != nil {
			return fmt.Errorf("failed to initialize MinIO: %w", err)
		}
	} else {
		log.Warn("minio_endpoint is empty, avatar upload is disabled")
	}

	// llm 模型初始化
	llmClient, err := llm.New(cfg)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			return fmt.Errorf("failed to initialize llm client: %w", err)
		}
		log.Warn("no llm provider configured, ai endpoints will return 503")
		llmClient = nil
	} else {
		log.Info("LLM client ready", "provider", llmClient.Provider(), "model", llmClient.Model())
	}

	// 依赖注入
	app, err := wire.BuildApplication(db, cfg, llmClient)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// HTTP 服务器
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅退出
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig.String())
			cancel()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("App exited successfully.")
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, db, dialect, err := bootstrap()
			if err != nil {
				return err
			}
			return database.Migrate(db, dialect)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, db, dialect, err := bootstrap()
			if err != nil {
				return err
			}
			return database.MigrateDown(db, dialect, steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back, 0 means all")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current migration version",
		RunE: func(c *cobra.Command, _ []string) error {
			_, db, dialect, err := bootstrap()
			if err != nil {
				return err
			}
			version, dirty, err := database.MigrationVersion(db, dialect)
			if err != nil {
				return err
			}
			c.Printf("version=%d dirty=%t\n", version, dirty)
			return nil
		},
	})
	return cmd
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative helpers",
	}

	var email, password, name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, db, dialect, err := bootstrap()
			if err != nil {
				return err
			}
			if err = database.Migrate(db, dialect); err != nil {
				return err
			}
			app, err := wire.BuildApplication(db, cfg, nil)
			if err != nil {
				return err
			}
			user, err := app.UserService.CreateAdmin(c.Context(), email, password, name)
			if err != nil {
				return err
			}
			c.Printf("admin created: id=%d email=%s\n", user.ID, user.Email)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "admin email")
	create.Flags().StringVar(&password, "password", "", "admin password")
	create.Flags().StringVar(&name, "name", "Administrator", "admin full name")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")
	cmd.AddCommand(create)
	return cmd
}
