package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bodywise/internal/feedback"
	"bodywise/internal/logging"
	"bodywise/internal/session"
)

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "capture",
		Short: "Run a guided capture session",
		Long:  "Walks through every pose in the catalog, validating each one against the remote pose-analysis service and storing the confirmed photos.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runID := time.Now().UTC().Format("20060102T150405.000Z")
			logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("bodywise-%s.log", runID))
			logger, err := logging.New(logging.Options{
				Level:            cfg.Logging.Level,
				Format:           cfg.Logging.Format,
				OutputPaths:      []string{logPath},
				ErrorOutputPaths: []string{logPath},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			presenter := feedback.NewConsole(cmd.OutOrStdout())
			runner, err := session.NewRunner(cfg, presenter, logger)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := runner.Run(signalCtx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderPhotoTable(runner.Controller().Snapshot().Photos))
			return nil
		},
	}
}
