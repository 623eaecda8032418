package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for runtime settings.
const envPrefix = "PREMCAST"

// Data source kinds.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Settings are runtime options that do not change the model: where data comes
// from, how to log, and how much to cache.
type Settings struct {
	DataDir   string `mapstructure:"data_dir"`
	Source    string `mapstructure:"source"`
	DSN       string `mapstructure:"dsn"`
	Config    string `mapstructure:"config"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	CacheSize int    `mapstructure:"cache_size"`
}

// newViper builds a viper instance with PREMCAST_ env binding and the
// defaults for every key, so env-only settings unmarshal too.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", "data")
	v.SetDefault("source", SourceCSV)
	v.SetDefault("dsn", "")
	v.SetDefault("config", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("cache_size", 256)
	return v
}

// LoadSettings reads an optional .env file, an optional settings file, and
// PREMCAST_* environment variables, in increasing precedence.
func LoadSettings(settingsFile string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := newViper()
	if settingsFile != "" {
		v.SetConfigFile(settingsFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file %q: %w", settingsFile, err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings for consistency.
func (s *Settings) Validate() error {
	switch s.Source {
	case SourceCSV:
		if s.DataDir == "" {
			return fmt.Errorf("data_dir is required for the csv source")
		}
	case SourcePostgres:
		if s.DSN == "" {
			return fmt.Errorf("dsn is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown data source %q (want %s or %s)", s.Source, SourceCSV, SourcePostgres)
	}
	switch s.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", s.LogFormat)
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("cache_size cannot be negative")
	}
	return nil
}
