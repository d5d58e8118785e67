package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML/JSON keys to Go struct fields.
type Config struct {
	// Links configuration for the short-link addressing scheme
	Links struct {
		BaseURL     string `mapstructure:"base_url"`     // Origin used when printing the full short form
		RoutePrefix string `mapstructure:"route_prefix"` // Path segment in front of the code (default: "r")
	} `mapstructure:"links"`

	// Storage configuration for the local SQLite-backed store
	Storage struct {
		Path          string `mapstructure:"path"`           // SQLite storage file path
		RetentionDays int    `mapstructure:"retention_days"` // How long expired links stay before pruning
	} `mapstructure:"storage"`

	// Monitor configuration for destination health checking
	Monitor struct {
		IntervalMinutes int `mapstructure:"interval_minutes"` // Interval in minutes between URL health checks
	} `mapstructure:"monitor"`
}

// LoadConfig loads the application configuration using Viper.
// It supports environment variable overrides and YAML configuration files.
// Returns a populated Config struct or an error if configuration loading fails.
func LoadConfig() (*Config, error) {
	// Enable automatic environment variable binding so any value can be
	// overridden without touching the file, e.g. STORAGE_PATH.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Defaults cover every key so a missing file is fully usable.
	viper.SetDefault("links.base_url", "http://localhost")
	viper.SetDefault("links.route_prefix", "r")
	viper.SetDefault("storage.path", "linklocal.db")
	viper.SetDefault("storage.retention_days", 7)
	viper.SetDefault("monitor.interval_minutes", 5)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Not fatal, the defaults above apply.
			log.Println("Config file not found, using default values")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// ShortURL formats the external representation of a code:
// <origin>/<routing-prefix>/<urlencoded code>.
func (c *Config) ShortURL(code string) string {
	base := strings.TrimRight(c.Links.BaseURL, "/")
	return fmt.Sprintf("%s/%s/%s", base, c.Links.RoutePrefix, url.PathEscape(code))
}
