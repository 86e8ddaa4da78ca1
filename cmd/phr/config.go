// ABOUTME: CLI commands for inspecting and creating the config file.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/phr/internal/config"
	"github.com/harperreed/phr/internal/vitals"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create configuration",
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		t, err := cfg.ThresholdSet()
		if err != nil {
			return err
		}
		effective := *cfg
		effective.Backend = cfg.GetBackend()
		effective.DataDir = cfg.GetDataDir()
		effective.User = cfg.GetUser()
		effective.WindowDays = cfg.GetWindowDays()
		effective.Highlights = cfg.GetHighlights()
		effective.Server.Address = cfg.GetServerAddress()
		effective.Thresholds = thresholdMap(t)

		data, err := yaml.Marshal(&effective)
		if err != nil {
			return err
		}
		path := cfgFile
		if path == "" {
			path = config.GetConfigPath()
		}
		faint.Fprintf(out, "# %s\n", path)
		fmt.Fprint(out, string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a config file with default values",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.GetConfigPath()
		}
		path = config.ExpandPath(path)
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		c := &config.Config{
			Backend:    cfg.GetBackend(),
			DataDir:    cfg.GetDataDir(),
			User:       cfg.GetUser(),
			WindowDays: cfg.GetWindowDays(),
			Highlights: cfg.GetHighlights(),
			LogLevel:   cfg.LogLevel,
			Server:     config.ServerConfig{Address: cfg.GetServerAddress()},
			Thresholds: thresholdMap(vitals.DefaultThresholds()),
		}
		if err := c.SaveTo(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		success(cmd.OutOrStdout(), "Wrote %s", path)
		return nil
	},
}

func thresholdMap(t vitals.Thresholds) map[string]vitals.Range {
	m := make(map[string]vitals.Range, len(t))
	for metric, r := range t {
		m[string(metric)] = r
	}
	return m
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
