package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/myaxum/myaxum/internal/bootstrap"
	"github.com/myaxum/myaxum/internal/config"
	"github.com/myaxum/myaxum/internal/logger"
)

const defaultPage = `<!doctype html>
<html lang="en">
<head><meta charset="UTF-8"><title>myaxum</title></head>
<body><div id="app"></div></body>
</html>
`

// NewBootstrapCmd returns the "bootstrap" subcommand that runs the client
// start-up sequence against a running dev server or backend.
func NewBootstrapCmd() *cobra.Command {
	var (
		baseURL  string
		pagePath string
		anchor   string
	)

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Fetch the initial payload and mount the app",
		Long: `Request /api/json_sample from --base-url, print its id and username (one
per line, on stderr), then mount the root component into the --anchor element
of the host page and write the resulting document to stdout.

On any failure nothing is printed to stderr by the sequence itself, nothing is
mounted, and the command exits non-zero.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := loadPage(pagePath)
			if err != nil {
				return err
			}

			log, closeLog := bootstrapLogger()
			defer func() { _ = closeLog.Close() }()

			seq, err := bootstrap.New(bootstrap.Options{
				BaseURL: baseURL,
				Console: cmd.ErrOrStderr(),
				Mounter: bootstrap.NewDocumentMounter(page, bootstrap.App(), cmd.OutOrStdout()),
				Anchor:  anchor,
				Logger:  log,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return reportResult(log, seq.Run(ctx))
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:3001", "Origin the initial payload is fetched from")
	cmd.Flags().StringVar(&pagePath, "page", "", "Host HTML page (defaults to the embedded index.html)")
	cmd.Flags().StringVar(&anchor, "anchor", bootstrap.DefaultAnchor, "Element the root component is mounted into")

	return cmd
}

// reportResult turns a failed Result into the command error. Every failure
// kind is matched explicitly.
func reportResult(log *slog.Logger, res bootstrap.Result) error {
	if res.OK() {
		return nil
	}

	var (
		netErr    *bootstrap.NetworkError
		statusErr *bootstrap.StatusError
		bodyErr   *bootstrap.MalformedBodyError
		mountErr  *bootstrap.MountError
	)
	switch {
	case errors.Is(res.Err, context.Canceled):
		// A canceled request also surfaces as a NetworkError.
		log.Info("bootstrap canceled")
		return fmt.Errorf("bootstrap canceled: %w", res.Err)
	case errors.Is(res.Err, bootstrap.ErrAlreadyStarted):
		return res.Err
	case errors.As(res.Err, &netErr):
		log.Error("initial payload request failed", "url", netErr.URL, "error", netErr.Err)
		return fmt.Errorf("backend unreachable: %w", res.Err)
	case errors.As(res.Err, &statusErr):
		log.Error("initial payload rejected", "url", statusErr.URL, "status", statusErr.StatusCode)
		return fmt.Errorf("backend answered %d: %w", statusErr.StatusCode, res.Err)
	case errors.As(res.Err, &bodyErr):
		log.Error("initial payload malformed", "reason", bodyErr.Reason, "error", bodyErr.Err)
		return fmt.Errorf("unexpected payload: %w", res.Err)
	case errors.As(res.Err, &mountErr):
		log.Error("mount failed", "anchor", mountErr.Anchor, "error", mountErr.Err)
		return fmt.Errorf("mounting app: %w", res.Err)
	default:
		log.Error("bootstrap failed", "error", res.Err)
		return res.Err
	}
}

func loadPage(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
		if err != nil {
			return nil, fmt.Errorf("reading page: %w", err)
		}
		return data, nil
	}
	if WebFS != nil {
		if data, err := fs.ReadFile(WebFS, "index.html"); err == nil {
			return data, nil
		}
	}
	return []byte(defaultPage), nil
}

// bootstrapLogger logs to the data dir when the app config resolves, and
// discards otherwise; the sequence must not write to the terminal itself.
func bootstrapLogger() (*slog.Logger, io.Closer) {
	cfg, err := config.Load()
	if err != nil {
		return logger.Discard(), io.NopCloser(nil)
	}
	log, closer, err := logger.NewFileLogger(cfg.LogDir(), "bootstrap", cfg.SlogLevel())
	if err != nil {
		return logger.Discard(), io.NopCloser(nil)
	}
	return log, closer
}
