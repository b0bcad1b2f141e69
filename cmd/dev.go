package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/myaxum/myaxum/internal/build"
	"github.com/myaxum/myaxum/internal/config"
	"github.com/myaxum/myaxum/internal/devserver"
	"github.com/myaxum/myaxum/internal/eventbus"
	"github.com/myaxum/myaxum/internal/logger"
	"github.com/myaxum/myaxum/internal/scheduler"
)

// NewDevCmd returns the "dev" subcommand that starts the development server.
func NewDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server on {VITE_API_HOST}:3001. Requests whose path
starts with /api are forwarded to http://{VITE_API_HOST}:3000 with the Host
header rewritten; every other path is served from the SPA build.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadDevServer()
			if err != nil {
				return err
			}
			if err := applyDevFlags(cmd, cfg); err != nil {
				return err
			}

			logFile := filepath.Join(cfg.LogDir(), "dev.log")
			lines := []bannerLine{{"URL", cfg.URL()}}
			for _, r := range cfg.Routes {
				lines = append(lines, bannerLine{"Proxy", r.PathPrefix + " -> " + r.TargetOrigin.String()})
			}
			lines = append(lines, bannerLine{"Logs", logFile})
			printBanner(cmd.OutOrStdout(), "myaxum dev server "+build.Version, lines...)

			if err := runDev(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("%w (see %s)", err, logFile)
			}
			return nil
		},
	}

	cmd.Flags().String("static-dir", "", "Serve the SPA from this directory (overrides DEV_STATIC_DIR env var)")
	cmd.Flags().Duration("check-interval", 10*time.Second, "Upstream check interval, 0 disables (overrides DEV_CHECK_INTERVAL env var)")

	return cmd
}

// applyDevFlags copies the flags the user set onto cfg. CLI flags override env config.
func applyDevFlags(cmd *cobra.Command, cfg *config.DevServerConfig) error {
	flags := cmd.Flags()
	if flags.Changed("static-dir") {
		dir, err := flags.GetString("static-dir")
		if err != nil {
			return err
		}
		cfg.StaticDir = dir
	}
	if flags.Changed("check-interval") {
		interval, err := flags.GetDuration("check-interval")
		if err != nil {
			return err
		}
		if interval < 0 {
			return fmt.Errorf("--check-interval must not be negative, got %s", interval)
		}
		cfg.CheckInterval = interval
	}
	return nil
}

func runDev(parent context.Context, cfg *config.DevServerConfig) (err error) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sysLogger, closer, err := logger.NewFileLogger(cfg.LogDir(), "dev", cfg.SlogLevel())
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { err = errors.Join(err, closer.Close()) }()

	prefixes := make([]string, 0, len(cfg.Routes))
	for _, r := range cfg.Routes {
		prefixes = append(prefixes, r.PathPrefix+"="+r.TargetOrigin.String())
	}
	sysLogger.Info("dev server starting",
		slog.String("addr", cfg.Binding.Addr()),
		slog.String("routes", strings.Join(prefixes, ",")),
		slog.String("static_dir", cfg.StaticDir),
		slog.Duration("check_interval", cfg.CheckInterval),
		slog.String("version", build.Version),
	)

	bus := eventbus.New(1, sysLogger)
	defer bus.Close()
	bus.Subscribe(func(e eventbus.Event) {
		sysLogger.Info("event", "event_id", e.ID, "type", e.Type, "payload", e.Payload)
	})

	srv, sched, err := buildDevServer(ctx, cfg, bus, sysLogger)
	if err != nil {
		return err
	}
	if sched != nil {
		defer func() {
			if stopErr := sched.Stop(); stopErr != nil {
				sysLogger.Warn("stopping upstream check failed", "error", stopErr)
			}
		}()
	}

	if err := srv.Run(ctx); err != nil {
		sysLogger.Error("dev server stopped with error", "error", err)
		return err
	}
	return nil
}

// buildDevServer creates the dev server and, when cfg.CheckInterval is
// positive, a started upstream check feeding its status endpoint. The
// returned scheduler is nil when probing is disabled; the caller stops it.
func buildDevServer(
	ctx context.Context, cfg *config.DevServerConfig, bus eventbus.EventBus, log *slog.Logger,
) (*devserver.Server, *scheduler.Scheduler, error) {
	var opts []devserver.Option
	var sched *scheduler.Scheduler
	if cfg.CheckInterval > 0 {
		var err error
		sched, err = newCheckScheduler(cfg, bus, log)
		if err != nil {
			return nil, nil, err
		}
		if err := sched.Start(ctx); err != nil {
			return nil, nil, errors.Join(fmt.Errorf("starting upstream check: %w", err), sched.Stop())
		}
		opts = append(opts, devserver.WithUpstreamStatus(sched))
	}

	srv, err := devserver.New(cfg, WebFS, log, opts...)
	if err != nil {
		err = fmt.Errorf("creating dev server: %w", err)
		if sched != nil {
			err = errors.Join(err, sched.Stop())
		}
		return nil, nil, err
	}
	return srv, sched, nil
}

func newCheckScheduler(cfg *config.DevServerConfig, bus eventbus.EventBus, log *slog.Logger) (*scheduler.Scheduler, error) {
	targets := make([]scheduler.Target, 0, len(cfg.Routes))
	for _, r := range cfg.Routes {
		targets = append(targets, scheduler.Target{Name: r.PathPrefix, URL: r.TargetOrigin})
	}
	return scheduler.New(scheduler.Config{
		Targets:        targets,
		Interval:       cfg.CheckInterval,
		Logger:         log,
		EventPublisher: bus,
	})
}
