// ABOUTME: phr configuration management with backend selection.
// ABOUTME: Loads settings with viper from file, PHR_ environment and defaults.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/phr/internal/recommend"
	"github.com/harperreed/phr/internal/storage"
	"github.com/harperreed/phr/internal/vitals"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by OpenStorage.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// DefaultUser is used when no user is configured or passed on the command line.
const DefaultUser = "default"

// DefaultServerAddress is where `phr serve` listens unless configured.
const DefaultServerAddress = "127.0.0.1:8765"

// Config stores phr configuration.
type Config struct {
	// Backend selects the storage backend: "csv" (default) or "sqlite".
	Backend string `mapstructure:"backend" yaml:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// CSV puts <user>/health_records.csv here; SQLite puts phr.db here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/phr.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir,omitempty"`

	// User is the default user when --user is not given.
	User string `mapstructure:"user" yaml:"user,omitempty"`

	WindowDays int    `mapstructure:"window_days" yaml:"window_days,omitempty"`
	Highlights int    `mapstructure:"highlights" yaml:"highlights,omitempty"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level,omitempty"`

	Server ServerConfig `mapstructure:"server" yaml:"server,omitempty"`

	// Thresholds overrides the default healthy ranges, keyed by metric name.
	Thresholds map[string]vitals.Range `mapstructure:"thresholds" yaml:"thresholds,omitempty"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "csv".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendCSV
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetUser returns the configured user, defaulting to DefaultUser.
func (c *Config) GetUser() string {
	if c.User == "" {
		return DefaultUser
	}
	return c.User
}

// GetWindowDays returns the recommendation window length in days.
func (c *Config) GetWindowDays() int {
	if c.WindowDays <= 0 {
		return recommend.DefaultWindowDays
	}
	return c.WindowDays
}

// GetHighlights returns how many recent records get daily highlights.
func (c *Config) GetHighlights() int {
	if c.Highlights <= 0 {
		return recommend.DefaultHighlights
	}
	return c.Highlights
}

// GetServerAddress returns the HTTP listen address.
func (c *Config) GetServerAddress() string {
	if c.Server.Address == "" {
		return DefaultServerAddress
	}
	return c.Server.Address
}

// ProfileDir is where per-user threshold profiles are kept.
func (c *Config) ProfileDir() string {
	return filepath.Join(c.GetDataDir(), "profiles")
}

// ThresholdSet returns the defaults overlaid with configured ranges.
func (c *Config) ThresholdSet() (vitals.Thresholds, error) {
	over := make(vitals.Thresholds, len(c.Thresholds))
	for name, r := range c.Thresholds {
		if !vitals.IsValidMetric(name) {
			return nil, fmt.Errorf("config thresholds: unknown metric %q", name)
		}
		over[vitals.Metric(name)] = r
	}
	t := vitals.DefaultThresholds().Merge(over)
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("config thresholds: %w", err)
	}
	return t, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(logger *zap.Logger) (storage.Repository, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	var (
		repo storage.Repository
		err  error
	)
	switch backend {
	case BackendCSV:
		repo, err = storage.NewCSVRepository(dataDir, logger)
	case BackendSQLite:
		repo, err = storage.Open(filepath.Join(dataDir, storage.DBFile), logger)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", backend, err)
	}
	return repo, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "phr", "config.yaml")
}

// Load reads config from path (GetConfigPath when empty), the PHR_
// environment and built-in defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = GetConfigPath()
	}
	path = ExpandPath(path)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// PHR_BACKEND, PHR_DATA_DIR, PHR_SERVER_ADDRESS, PHR_THRESHOLDS_SUGAR_HIGH, ...
	v.SetEnvPrefix("PHR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendCSV)
	v.SetDefault("data_dir", "")
	v.SetDefault("user", DefaultUser)
	v.SetDefault("window_days", recommend.DefaultWindowDays)
	v.SetDefault("highlights", recommend.DefaultHighlights)
	v.SetDefault("log_level", "warn")
	v.SetDefault("server.address", DefaultServerAddress)

	// Registering every threshold key lets environment overrides reach them.
	for m, r := range vitals.DefaultThresholds() {
		v.SetDefault("thresholds."+string(m)+".low", r.Low)
		v.SetDefault("thresholds."+string(m)+".high", r.High)
	}
}

// Save writes config to GetConfigPath.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config as YAML to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
