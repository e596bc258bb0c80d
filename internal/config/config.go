// Package config is the root configuration for the plagiarism-detection CLI.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	instance *Config
	once     sync.Once
)

// Config is the root configuration structure for the entire application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Network NetworkConfig `mapstructure:"network"`
	Session SessionConfig `mapstructure:"session"`
	History HistoryConfig `mapstructure:"history"`
}

// ServerConfig locates the analysis service the client talks to.
type ServerConfig struct {
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
}

// ColorConfig defines the color settings for different log levels.
// These are used for console output to make logs more readable.
type ColorConfig struct {
	Debug string `mapstructure:"debug" json:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" json:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" json:"warn" yaml:"warn"`
	Error string `mapstructure:"error" json:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" json:"fatal" yaml:"fatal"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" json:"level" yaml:"level"`
	Format      string      `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" json:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" json:"colors" yaml:"colors"`
}

// NetworkConfig holds settings for HTTP requests to the analysis service.
type NetworkConfig struct {
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	IgnoreTLSErrors bool          `mapstructure:"ignore_tls_errors"`
	ProxyURL        string        `mapstructure:"proxy_url"`
}

// SessionConfig holds settings for the persisted login session.
type SessionConfig struct {
	// TokenFile is the single file the session token is persisted to.
	TokenFile string `mapstructure:"token_file"`
}

// HistoryConfig holds settings for the local submission history.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// SetDefaults registers default values so the client can run with a
// minimal config file, or none at all.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.base_url", "http://localhost:8000")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "plagctl")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("network.request_timeout", 60*time.Second)
	v.SetDefault("network.ignore_tls_errors", false)

	v.SetDefault("session.token_file", defaultStatePath("token"))
	v.SetDefault("history.path", defaultStatePath("history.db"))
}

// defaultStatePath places client state under ~/.plagctl, falling back to
// the working directory when the home directory cannot be resolved.
func defaultStatePath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".plagctl", name)
}

// Validate checks the configuration for values the client cannot run with.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url must be set")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.base_url %q is not a valid absolute URL", c.Server.BaseURL)
	}
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("network.request_timeout must be positive, got %s", c.Network.RequestTimeout)
	}
	if c.Network.ProxyURL != "" {
		if _, err := url.Parse(c.Network.ProxyURL); err != nil {
			return fmt.Errorf("network.proxy_url %q is not a valid URL: %w", c.Network.ProxyURL, err)
		}
	}
	if c.Session.TokenFile == "" {
		return fmt.Errorf("session.token_file must be set")
	}
	return nil
}

// Load initializes the configuration singleton from Viper.
func Load(v *viper.Viper) error {
	var loadErr error
	once.Do(func() {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			loadErr = fmt.Errorf("error unmarshaling config: %w", err)
			return
		}
		instance = &cfg
	})
	return loadErr
}

// Set stores an already-built configuration as the singleton instance.
func Set(cfg *Config) {
	instance = cfg
}

// Get returns the loaded configuration instance.
func Get() *Config {
	if instance == nil {
		panic("Configuration not initialized. Call config.Load() in the root command.")
	}
	return instance
}
