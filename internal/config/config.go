// Package config loads the client-local configuration. Everything the
// host process owns (theme, locale, tool availability) arrives over IPC
// instead; only the knobs needed before that connection exists live
// here.
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
	Host HostConfig
	Log  LogConfig
}

// HostConfig points at the host process's IPC endpoint.
type HostConfig struct {
	URL         string
	DialTimeout int // seconds
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// Load reads configuration from file and env. Env var overrides use prefix SCRIBE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("host.url", "ws://127.0.0.1:4040/ipc")
	v.SetDefault("host.dial_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SCRIBE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "scribe"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SCRIBE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	c := Config{
		Host: HostConfig{
			URL:         v.GetString("host.url"),
			DialTimeout: v.GetInt("host.dial_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	if c.Host.URL == "" {
		return Config{}, fmt.Errorf("host.url must not be empty")
	}
	return c, nil
}
