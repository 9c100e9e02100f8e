package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultName            = "blestackd"
	DefaultAddr            = ":9400"
	DefaultSessionCapacity = 256
)

// ServerConfig configures the blestackd HTTP API.
type ServerConfig struct {
	Name            string   `toml:"name"`
	Addr            string   `toml:"addr"`
	CorsOrigins     []string `toml:"cors_origins"`
	CatalogPath     string   `toml:"catalog_path"`
	SessionCapacity int      `toml:"session_capacity"`
}

// Default returns the configuration used when no file is given.
func Default() ServerConfig {
	return ServerConfig{
		Name:            DefaultName,
		Addr:            DefaultAddr,
		SessionCapacity: DefaultSessionCapacity,
	}
}

func LoadServerConfig(path string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := loadToml(path, &cfg); err != nil {
		return ServerConfig{}, err
	}
	cfg.applyDefaults()
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func (c *ServerConfig) applyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.SessionCapacity == 0 {
		c.SessionCapacity = DefaultSessionCapacity
	}
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("server config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if cfg.SessionCapacity < 0 {
		return fmt.Errorf("server config session_capacity must be positive")
	}
	for i, origin := range cfg.CorsOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("cors_origins[%d] invalid: %q needs an http(s) scheme", i, origin)
		}
	}
	return nil
}
