package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultNewsLimit caps how much news text is fetched per selection.
const DefaultNewsLimit = 20000

// Config holds all configuration for the launcher. Values are loaded by
// Viper from a .env file and/or environment variables.
type Config struct {
	LibraryPath            string `mapstructure:"LIBRARY_PATH"`
	Editor                 string `mapstructure:"GAMES_EDITOR"`
	UserAgent              string `mapstructure:"USERAGENT"`
	NewsLimit              int    `mapstructure:"NEWS_LIMIT"`
	HTTPTimeoutSeconds     int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	DownloadTimeoutSeconds int    `mapstructure:"DOWNLOAD_TIMEOUT_SECONDS"`
	DatabasePath           string `mapstructure:"-"` // Not from env, derived
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		// No .env file; environment variables and defaults cover it.
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	viper.AutomaticEnv()

	for _, key := range []string{
		"LIBRARY_PATH",
		"GAMES_EDITOR",
		"USERAGENT",
		"NEWS_LIMIT",
		"HTTP_TIMEOUT_SECONDS",
		"DOWNLOAD_TIMEOUT_SECONDS",
	} {
		if bindErr := viper.BindEnv(key); bindErr != nil {
			return Config{}, fmt.Errorf("unable to bind %s env var: %w", key, bindErr)
		}
	}

	if vipErr := viper.Unmarshal(&config); vipErr != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", vipErr)
	}

	processConfigDefaults(&config)

	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}

	// Keep the history database next to the library document.
	config.DatabasePath = filepath.Join(filepath.Dir(config.LibraryPath), "launcher-history.db")

	return config, nil
}

// processConfigDefaults fills in every value that was not configured.
func processConfigDefaults(cfg *Config) {
	if cfg.LibraryPath == "" {
		cfg.LibraryPath = "games.json"
	}
	if cfg.Editor == "" {
		cfg.Editor = os.Getenv("EDITOR")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "games-launcher/1.0 (+local)"
	}
	if cfg.NewsLimit <= 0 {
		cfg.NewsLimit = DefaultNewsLimit
	}
}

// validateAndEnsureDirectories makes sure the directory holding the
// library document exists so the first save has somewhere to land.
func validateAndEnsureDirectories(cfg *Config) error {
	if cfg.LibraryPath == "" {
		return fmt.Errorf("LIBRARY_PATH is required")
	}

	dir := filepath.Dir(cfg.LibraryPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create library directory %s: %w", dir, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check library directory %s: %w", dir, err)
	}

	return nil
}
