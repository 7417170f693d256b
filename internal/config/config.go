package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Kiosk     KioskConfig
	Database  DatabaseConfig
	Telemetry TelemetryConfig
	Tare      TareConfig
	Log       LogConfig
	UI        UIConfig
}

// KioskConfig identifies this kiosk and guards the admin console.
type KioskConfig struct {
	Name         string `mapstructure:"name"`
	AdminPattern string `mapstructure:"admin_pattern"` // digit sequence that unlocks the console
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// TelemetryConfig holds the scale-controller feed settings.
type TelemetryConfig struct {
	URL             string `mapstructure:"url"`
	OfflineAfterSec int    `mapstructure:"offline_after_sec"`
}

// TareConfig holds shelf calibration settings.
type TareConfig struct {
	KnownWeightG float64 `mapstructure:"known_weight_g"`
}

// LogConfig holds file logging settings.
type LogConfig struct {
	Dir string `mapstructure:"dir"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	RowsPerPage int `mapstructure:"rows_per_page"`
}

// Load reads configuration from file and env. Env var overrides use prefix BNBKIOSK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("kiosk.name", "bnb-kiosk")
	v.SetDefault("kiosk.admin_pattern", "1379")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "bnbkiosk", "kiosk.db"))
	v.SetDefault("telemetry.url", "ws://localhost:9001/shelves")
	v.SetDefault("telemetry.offline_after_sec", 10)
	v.SetDefault("tare.known_weight_g", 500.0)
	v.SetDefault("log.dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "bnbkiosk", "logs"))
	v.SetDefault("ui.rows_per_page", 20)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("BNBKIOSK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "bnbkiosk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BNBKIOSK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return normalize(c), nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. The admin pattern lives here in plain text; kiosk images should
// restrict filesystem access instead.
func Save(cfg Config) error {
	path := os.Getenv("BNBKIOSK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "bnbkiosk", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("kiosk.name", cfg.Kiosk.Name)
	v.Set("kiosk.admin_pattern", cfg.Kiosk.AdminPattern)
	v.Set("database.path", cfg.Database.Path)
	v.Set("telemetry.url", cfg.Telemetry.URL)
	v.Set("telemetry.offline_after_sec", cfg.Telemetry.OfflineAfterSec)
	v.Set("tare.known_weight_g", cfg.Tare.KnownWeightG)
	v.Set("log.dir", cfg.Log.Dir)
	v.Set("ui.rows_per_page", cfg.UI.RowsPerPage)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func normalize(c Config) Config {
	if strings.TrimSpace(c.Kiosk.Name) == "" {
		c.Kiosk.Name = "bnb-kiosk"
	}
	c.Kiosk.AdminPattern = strings.TrimSpace(c.Kiosk.AdminPattern)
	if c.Telemetry.OfflineAfterSec <= 0 {
		c.Telemetry.OfflineAfterSec = 10
	}
	if c.Tare.KnownWeightG <= 0 {
		c.Tare.KnownWeightG = 500.0
	}
	if c.UI.RowsPerPage < 5 || c.UI.RowsPerPage > 50 {
		c.UI.RowsPerPage = 20
	}
	return c
}
