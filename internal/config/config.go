// Package config loads hamster-export configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full tool configuration.
type Config struct {
	Database DatabaseConfig
	Export   ExportConfig
	Logger   LoggerConfig
}

// DatabaseConfig locates the Hamster database.
type DatabaseConfig struct {
	Path     string
	DayStart time.Duration // offset of the hamster-day boundary from midnight
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	Dir          string
	Format       string
	RoundMinutes int
	HourlyRate   string // decimal string, empty disables billing
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string
}

// DefaultDayStart is Hamster's default day boundary (05:30).
const DefaultDayStart = 5*time.Hour + 30*time.Minute

// Load reads configuration from ~/.config/hamster-export/config.yaml (when
// present) and HAMSTER_EXPORT_* environment variables. Environment wins.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("database.path", "")
	v.SetDefault("database.day_start", "05:30")
	v.SetDefault("export.dir", "exports")
	v.SetDefault("export.format", "csv")
	v.SetDefault("export.round_minutes", 0)
	v.SetDefault("export.hourly_rate", "")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")

	// Config file
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "hamster-export"))
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Env
	v.SetEnvPrefix("HAMSTER_EXPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	dayStart, err := ParseDayStart(v.GetString("database.day_start"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Path:     v.GetString("database.path"),
			DayStart: dayStart,
		},
		Export: ExportConfig{
			Dir:          v.GetString("export.dir"),
			Format:       v.GetString("export.format"),
			RoundMinutes: v.GetInt("export.round_minutes"),
			HourlyRate:   v.GetString("export.hourly_rate"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("logger.level"),
			Format: v.GetString("logger.format"),
		},
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = probeDatabase()
	}

	return cfg, nil
}

// ParseDayStart parses a HH:MM day boundary into an offset from midnight.
func ParseDayStart(s string) (time.Duration, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid day start %q, expected HH:MM", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid day start %q, expected HH:MM", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid day start %q, expected HH:MM", s)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// ProbePaths returns the well-known Hamster database locations, newest
// layout first.
func ProbePaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(home, ".local", "share")
	}
	return []string{
		filepath.Join(dataDir, "hamster", "hamster.db"),
		filepath.Join(dataDir, "hamster-applet", "hamster.db"),
	}
}

// probeDatabase returns the first existing well-known database path, or ""
// when none is found.
func probeDatabase() string {
	for _, path := range ProbePaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
