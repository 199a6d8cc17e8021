package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/spam-sorter/internal/app"
	"github.com/mikey/spam-sorter/internal/di"
	"github.com/mikey/spam-sorter/internal/logging"
	"github.com/mikey/spam-sorter/internal/playback"
)

// tuiLogFile receives the logs while the viewer owns the terminal
const tuiLogFile = "spam-sorter.log"

type mode int

const (
	modeTUI mode = iota
	modeHeadless
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &di.Flags{}

	cmd := &cobra.Command{
		Use:          "spam-sorter",
		Short:        "Classify messages with Naive Bayes and watch them sort into spam and non-spam",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Watch the playback in the terminal
  spam-sorter --corpus emails.txt

  # Write the reports without a viewer
  spam-sorter report --corpus emails.txt --report-type text,console
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags, modeTUI, cmd.OutOrStdout())
		},
	}
	flags.Register(cmd.PersistentFlags())

	cmd.AddCommand(&cobra.Command{
		Use:   "report",
		Short: "Run the classification headless and write the reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags, modeHeadless, cmd.OutOrStdout())
		},
	})

	return cmd
}

func run(ctx context.Context, flags *di.Flags, m mode, out io.Writer) error {
	cfg, err := di.LoadConfig(flags)
	if err != nil {
		if logger, logErr := logging.InitConsoleLogger(flags.Verbose, flags.JSONLog); logErr == nil {
			logger.Error("Failed to load configuration", zap.Error(err))
		}
		return err
	}
	if m == modeTUI && cfg.GetString("logging.output") == "stderr" {
		cfg.Set("logging.output", tuiLogFile)
	}

	container, err := di.BuildContainer(cfg, out)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	return container.Invoke(func(a *app.App, logger *zap.Logger) error {
		defer logger.Sync()
		defer func() {
			if err := a.Close(); err != nil {
				logger.Error("Failed to close report sinks", zap.Error(err))
			}
		}()

		var (
			outcome *playback.Outcome
			err     error
		)
		if m == modeTUI {
			outcome, err = a.RunTUI(ctx)
		} else {
			outcome, err = a.RunHeadless(ctx)
		}
		if err != nil {
			logger.Error("Session failed", zap.Error(err))
			return err
		}
		if outcome != nil && outcome.Canceled {
			logger.Info("Session canceled before every message was classified")
		}
		return nil
	})
}
