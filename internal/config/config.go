// Package config manages engine configuration: a TOML file with sensible
// defaults, overridable per-flag from the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all engine configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig controls SQLite storage.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	home := quizforgeHome()
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8480,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(home, "quizforge.db"),
		},
	}
}

// Load reads config from the given path, or from
// ~/.quizforge/config.toml when path is empty, falling back to defaults
// when no file exists.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = filepath.Join(quizforgeHome(), "config.toml")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port the server binds to.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// quizforgeHome returns the engine data directory.
func quizforgeHome() string {
	if env := os.Getenv("QUIZFORGE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".quizforge")
}

// Home is exported for use by other packages.
func Home() string {
	return quizforgeHome()
}
