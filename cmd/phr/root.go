// ABOUTME: Root Cobra command for the phr CLI.
// ABOUTME: Loads config and opens storage, profiles and the dashboard service per run.
package main

import (
	"errors"
	"fmt"

	"github.com/harperreed/phr/internal/config"
	"github.com/harperreed/phr/internal/dashboard"
	"github.com/harperreed/phr/internal/logging"
	"github.com/harperreed/phr/internal/metrics"
	"github.com/harperreed/phr/internal/profile"
	"github.com/harperreed/phr/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// skipStorage marks commands that run without opening records.
const skipStorage = "skip-storage"

var (
	cfgFile     string
	userFlag    string
	dataDirFlag string
	backendFlag string
	verbose     bool

	cfg      *config.Config
	logger   *zap.Logger
	repo     storage.Repository
	profiles *profile.Store
	svc      *dashboard.Service
)

var rootCmd = &cobra.Command{
	Use:   "phr",
	Short: "Personal health record dashboard",
	Long: `phr tracks blood pressure, blood sugar and pulse readings per user and
turns them into recommendations, statistics, charts and reports.

QUICK START:

  $ phr add --bp 120/80 --sugar 95 --pulse 72   # Log a reading
  $ phr list                                    # See recent records
  $ phr recommend                               # Last 30 days summary
  $ phr stats --from 2025-01-01                 # Mean/median/min/max
  $ phr chart bp                                # Blood pressure sparkline
  $ phr report --format pdf                     # Write a PDF report

USERS:

  Every command works on one user's records. Pick the user with --user
  (or "user" in the config file). Records live in
  <data_dir>/<user>/health_records.csv.

SERVERS:

  $ phr serve     # Local HTTP JSON API with Prometheus metrics
  $ phr mcp       # Model Context Protocol server over stdio

CONFIGURATION:

  Config is read from ~/.config/phr/config.yaml and PHR_* environment
  variables (PHR_DATA_DIR, PHR_BACKEND, PHR_THRESHOLDS_SUGAR_HIGH, ...).
  Run 'phr config init' to write a starting file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cfg)

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		if err != nil {
			return err
		}

		if cmd.Annotations[skipStorage] == "true" {
			return nil
		}
		return openService("cli", nil)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeResources()
	},
}

// Execute runs the root command and releases anything it opened.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeResources(); err == nil {
		err = cerr
	}
	return err
}

func applyFlagOverrides(c *config.Config) {
	if userFlag != "" {
		c.User = userFlag
	}
	if dataDirFlag != "" {
		c.DataDir = dataDirFlag
	}
	if backendFlag != "" {
		c.Backend = backendFlag
	}
}

// openService opens storage and profiles and builds the dashboard service.
// source labels added records in metrics.
func openService(source string, m *metrics.Metrics) error {
	thresholds, err := cfg.ThresholdSet()
	if err != nil {
		return err
	}

	if repo == nil {
		repo, err = cfg.OpenStorage(logger)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
	}

	if profiles == nil {
		profiles, err = profile.Open(cfg.ProfileDir(), logger)
		if err != nil {
			logger.Warn("profile store unavailable, using configured thresholds",
				zap.String("dir", cfg.ProfileDir()), zap.Error(err))
			profiles = nil
		}
	}

	opts := dashboard.Options{
		Thresholds: thresholds,
		WindowDays: cfg.GetWindowDays(),
		Highlights: cfg.GetHighlights(),
		Source:     source,
		Metrics:    m,
		Logger:     logger,
	}
	if profiles != nil {
		opts.Profiles = profiles
	}
	svc = dashboard.New(repo, opts)
	return nil
}

func closeResources() error {
	var errs []error
	if profiles != nil {
		errs = append(errs, profiles.Close())
		profiles = nil
	}
	if repo != nil {
		errs = append(errs, repo.Close())
		repo = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
	svc = nil
	return errors.Join(errs...)
}

// currentUser is the user every command acts on.
func currentUser() string {
	if cfg == nil {
		if userFlag != "" {
			return userFlag
		}
		return config.DefaultUser
	}
	return cfg.GetUser()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/phr/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user whose records to use")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: csv or sqlite")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
