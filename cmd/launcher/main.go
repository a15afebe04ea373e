package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dev/bravebird/browser-launcher/pkg/automation"
	"dev/bravebird/browser-launcher/pkg/browser"
	"dev/bravebird/browser-launcher/pkg/config"
	"dev/bravebird/browser-launcher/pkg/control"
	"dev/bravebird/browser-launcher/pkg/database"
	"dev/bravebird/browser-launcher/pkg/logging"
	"dev/bravebird/browser-launcher/pkg/view"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var maximized, automationMode, watch bool

	cmd := &cobra.Command{
		Use:   "launcher [--maximized] [--automation] [--watch] <ctrl_file_path>",
		Short: "Drive a browser view from a polled control file",
		Long: `Polls the control file every second. The file may contain a URL or one of
back, forward, reload, fullscreen, unfullscreen, maximized, unmaximized.
After applying the command the file is overwritten with "done".`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("missing control file path")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			cfg.CtrlFilePath = args[0]
			cfg.Maximized = maximized
			cfg.Automation = automationMode
			cfg.Watch = watch

			if err := cfg.Validate(); err != nil {
				return err
			}

			cmd.SilenceUsage = true
			return run(cfg)
		},
	}

	cmd.Flags().BoolVar(&maximized, "maximized", false, "start with the window maximized")
	cmd.Flags().BoolVar(&automationMode, "automation", false, "allow one automation session to control the view")
	cmd.Flags().BoolVar(&watch, "watch", false, "also react to control file changes between polls")

	return cmd
}

func run(cfg *config.Config) error {
	logger := logging.New(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var history automation.History
	opts := control.Options{
		Interval: cfg.PollInterval,
		Watch:    cfg.Watch,
		Logger:   logger,
	}

	if cfg.MySQLDSN != "" {
		db, err := database.New(cfg.MySQLDSN)
		if err == nil {
			err = db.EnsureSchema(ctx)
			if err != nil {
				db.Close()
			}
		}
		if err != nil {
			logger.Warn("Failed to connect to database, running without command journal", "error", err)
		} else {
			defer db.Close()
			opts.Recorder = db
			history = db
		}
	}

	v, err := browser.Launch(browser.Options{
		Bin:        cfg.ChromeBin,
		Headless:   cfg.Headless,
		Automation: cfg.Automation,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := v.Close(); err != nil {
			logger.Warn("Failed to close browser view", "error", err)
		}
	}()

	prepareView(v, cfg, logger)

	poller := control.NewPoller(cfg.CtrlFilePath, v, opts)

	if cfg.Automation {
		srv := automation.NewServer(cfg.AutomationAddr, automation.NewLimiter(), poller, history, logger)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Automation server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Automation server forced to shutdown", "error", err)
			}
		}()
	}

	if err := poller.Run(ctx); err != nil {
		return fmt.Errorf("poller failed: %w", err)
	}

	logger.Info("Shutting down")
	return nil
}

// prepareView sizes the window before polling starts. Maximizing happens
// after the resize so the normal size is what an unmaximize returns to.
func prepareView(v view.View, cfg *config.Config, logger *slog.Logger) {
	if err := v.Toplevel().Resize(cfg.Width, cfg.Height); err != nil {
		logger.Warn("Failed to resize window", "width", cfg.Width, "height", cfg.Height, "error", err)
	}
	if cfg.Maximized {
		if err := v.Toplevel().Maximize(); err != nil {
			logger.Warn("Failed to maximize window", "error", err)
		}
	}
}
