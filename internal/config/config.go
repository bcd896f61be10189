package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the client configuration
type Config struct {
	// Server configuration
	ServerURL string `mapstructure:"server_url"`

	// Request timeout in seconds for API calls
	RequestTimeout int `mapstructure:"request_timeout"`

	// Session storage configuration
	TokenPath string `mapstructure:"token_path"` // file-backed secure store location (non-keychain platforms)
	CachePath string `mapstructure:"cache_path"` // SQLite profile/cache database

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	// TLS configuration (development only)
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:          "https://api.devicepay.example.com/api",
		RequestTimeout:     30,
		TokenPath:          defaultDataPath("token"),
		CachePath:          defaultDataPath("cache.db"),
		LogLevel:           "info",
		LogFile:            "",
		InsecureSkipVerify: false,
	}
}

// defaultDataPath returns a path under the user's devicepay data directory,
// falling back to the working directory when no home is available.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./" + name
	}
	return filepath.Join(home, ".devicepay", name)
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// Look for config in current directory and common locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".devicepay"))
		}
		v.AddConfigPath("/etc/devicepay")
	}

	// Environment variable configuration
	v.SetEnvPrefix("DEVICEPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("token_path", cfg.TokenPath)
	v.SetDefault("cache_path", cfg.CachePath)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("insecure_skip_verify", cfg.InsecureSkipVerify)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server_url must start with http:// or https://")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.CachePath == "" {
		return fmt.Errorf("cache_path is required")
	}
	if c.LogLevel != "" {
		switch strings.ToLower(c.LogLevel) {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("log_level must be one of: debug, info, warn, error")
		}
	}
	return nil
}
