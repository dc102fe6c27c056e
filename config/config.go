package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"
)

const (
	AppName        = "classic-snake"
	ConfigFileName = "config.yaml"

	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // empty means stderr, or data_dir/snake.log in the terminal frontend
}

type Config struct {
	Frontend    string            `yaml:"frontend"`
	TickMS      int               `yaml:"tick_ms"`
	Seed        uint64            `yaml:"seed"` // 0 seeds from the clock
	Store       string            `yaml:"store"`
	DataDir     string            `yaml:"data_dir"`
	WindowScale int               `yaml:"window_scale"`
	Log         LogConfig         `yaml:"log"`
	Keys        map[string]string `yaml:"keys"` // key name -> action name
}

// Default returns the settings of the classic game.
func Default() Config {
	return Config{
		Frontend:    FrontendWindow,
		TickMS:      100,
		Store:       "json",
		WindowScale: 2,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Dir finds the configuration directory: $SNAKE_CONFIG_HOME, else
// $XDG_CONFIG_HOME/classic-snake, else ~/.config/classic-snake.
func Dir() (string, error) {
	if dir := os.Getenv("SNAKE_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	xdgHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgHome == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("finding home directory: %w", err)
		}
		xdgHome = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgHome, AppName), nil
}

// Load reads path on top of the defaults. A missing file yields the
// defaults. An empty path means Dir()/config.yaml.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := Dir()
		if err != nil {
			return cfg, err
		}
		path = filepath.Join(dir, ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.resolve()
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.resolve(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// resolve fills the data directory and expands a leading ~.
func (c *Config) resolve() error {
	if c.DataDir == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		c.DataDir = filepath.Join(dir, "data")
	}
	expanded, err := homedir.Expand(c.DataDir)
	if err != nil {
		return fmt.Errorf("expanding data_dir: %w", err)
	}
	c.DataDir = expanded
	return nil
}

// Validate rejects values the game cannot run with.
func (c Config) Validate() error {
	switch c.Frontend {
	case FrontendWindow, FrontendTerminal:
	default:
		return fmt.Errorf("%w: frontend %q", ErrInvalidConfig, c.Frontend)
	}
	if c.TickMS < 10 || c.TickMS > 5000 {
		return fmt.Errorf("%w: tick_ms %d out of range [10, 5000]", ErrInvalidConfig, c.TickMS)
	}
	switch c.Store {
	case "json", "sqlite", "memory":
	default:
		return fmt.Errorf("%w: store %q", ErrInvalidConfig, c.Store)
	}
	if c.WindowScale < 1 || c.WindowScale > 4 {
		return fmt.Errorf("%w: window_scale %d out of range [1, 4]", ErrInvalidConfig, c.WindowScale)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}
