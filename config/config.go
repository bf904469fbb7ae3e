// Package config provides TOML configuration for presence clients with
// fsnotify-based hot reload. The transport core itself reads no files;
// config is for the application embedding the client.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk configuration of a presence client.
type Config struct {
	// ClientID identifies the application to the desktop peer.
	ClientID string `toml:"client_id"`

	// Transport selects the connection mechanism: "pipe" (default)
	// or "websocket".
	Transport string `toml:"transport"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level"`

	// Activity holds the presence published on startup.
	Activity ActivityConfig `toml:"activity"`
}

// ActivityConfig is the configurable part of the published activity.
type ActivityConfig struct {
	Details    string `toml:"details"`
	State      string `toml:"state"`
	LargeImage string `toml:"large_image"`
	LargeText  string `toml:"large_text"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Transport: "pipe",
		LogLevel:  "info",
	}
}

// Validate checks the config before it is swapped in.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("client_id must be set")
	}
	switch c.Transport {
	case "", "pipe", "websocket":
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Load reads a TOML config file. If the file does not exist, defaults
// are returned with the given client ID filled in.
func Load(path, fallbackClientID string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			cfg.ClientID = fallbackClientID
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}
