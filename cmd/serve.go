package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/myaxum/myaxum/internal/api"
	"github.com/myaxum/myaxum/internal/build"
	"github.com/myaxum/myaxum/internal/config"
	"github.com/myaxum/myaxum/internal/eventbus"
	"github.com/myaxum/myaxum/internal/logger"
	"github.com/myaxum/myaxum/internal/server"
	"github.com/myaxum/myaxum/internal/service"
	"github.com/myaxum/myaxum/internal/storage"
)

// NewServeCmd returns the "serve" subcommand that starts the backend API server.
func NewServeCmd() *cobra.Command {
	var (
		port      int
		host      string
		todoStore string
		staticDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the backend API server",
		Long: `Start the backend HTTP server. It serves the JSON API under /api, the
public /users and /login/ routes, and the built SPA for every other path.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// CLI flags override env config.
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("todo-store") {
				cfg.TodoStore = todoStore
			}
			if cmd.Flags().Changed("static-dir") {
				cfg.StaticDir = staticDir
			}

			serverURL := "http://" + cfg.Host + ":" + strconv.Itoa(cfg.Port)
			logFile := filepath.Join(cfg.LogDir(), "serve.log")
			printBanner(cmd.OutOrStdout(), "myaxum backend "+build.Version,
				bannerLine{"URL", serverURL},
				bannerLine{"Store", cfg.TodoStore},
				bannerLine{"Logs", logFile},
			)

			if err := runServe(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("%w (see %s)", err, logFile)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", config.UpstreamPort, "HTTP server port (overrides PORT env var)")
	cmd.Flags().StringVar(&host, "host", config.DefaultAPIHost, "HTTP server host (overrides MYAXUM_HOST env var)")
	cmd.Flags().StringVar(&todoStore, "todo-store", config.TodoStoreMemory, "Todo storage backend: memory or sqlite (overrides TODO_STORE env var)")
	cmd.Flags().StringVar(&staticDir, "static-dir", "", "Serve the SPA from this directory instead of the embedded build")

	return cmd
}

func runServe(parent context.Context, cfg *config.AppConfig) (err error) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sysLogger, closer, err := logger.NewFileLogger(cfg.LogDir(), "serve", cfg.SlogLevel())
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { err = errors.Join(err, closer.Close()) }()

	sysLogger.Info("myaxum backend starting",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("data_dir", cfg.DataDir),
		slog.String("todo_store", cfg.TodoStore),
		slog.String("version", build.Version),
		slog.String("commit", build.CommitSHA),
		slog.String("build_date", build.BuildDate),
	)

	todos, closeStore, err := openTodoStore(ctx, cfg)
	if err != nil {
		sysLogger.Error("opening todo store failed", "error", err)
		return err
	}
	defer func() { err = errors.Join(err, closeStore()) }()

	bus := eventbus.New(0, sysLogger)
	defer bus.Close()
	bus.Subscribe(func(e eventbus.Event) {
		sysLogger.Info("event", "event_id", e.ID, "type", e.Type, "payload", e.Payload)
	})

	todoSvc := service.NewTodoService(todos, bus, sysLogger)
	userSvc := service.NewUserService(sysLogger)
	apiSrv := api.New(todoSvc, userSvc, sysLogger)

	srv := server.New(apiSrv, server.Options{
		Host:               cfg.Host,
		Port:               cfg.Port,
		FrontendFS:         WebFS,
		StaticDir:          cfg.StaticDir,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, sysLogger)

	sysLogger.Info("server ready")
	if err := srv.Run(ctx); err != nil {
		sysLogger.Error("server stopped with error", "error", err)
		return err
	}
	return nil
}

func openTodoStore(ctx context.Context, cfg *config.AppConfig) (storage.TodoStore, func() error, error) {
	switch cfg.TodoStore {
	case config.TodoStoreSQLite:
		db, err := storage.OpenSQLite(ctx, cfg.DBPath())
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return storage.NewSQLiteTodoStore(db), db.Close, nil
	case config.TodoStoreMemory:
		return storage.NewMemoryTodoStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown todo store %q", cfg.TodoStore)
	}
}
