package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sushantdwivedi/Frame-io/internal/storage"
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Surface SurfaceConfig `yaml:"surface"`
	Drawing DrawingConfig `yaml:"drawing"`
	Sync    SyncConfig    `yaml:"sync"`
	User    UserConfig    `yaml:"user"`
	Video   VideoConfig   `yaml:"video"`
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "memory"
	Path    string `yaml:"path"`
}

type SurfaceConfig struct {
	Width float32 `yaml:"width"` // height follows at 16:9
}

type DrawingConfig struct {
	Color     string  `yaml:"color"`
	Width     float32 `yaml:"width"`
	MaxPoints int     `yaml:"max_points"`
}

type SyncConfig struct {
	DriftThresholdMs int64 `yaml:"drift_threshold_ms"`
	EndThresholdMs   int64 `yaml:"end_threshold_ms"`
}

type UserConfig struct {
	Name   string `yaml:"name"`
	Avatar string `yaml:"avatar"`
}

// VideoConfig drives the simulated player used when no decoder is attached.
type VideoConfig struct {
	DurationMs int64         `yaml:"duration_ms"`
	Tick       time.Duration `yaml:"tick"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Storage: StorageConfig{Backend: "sqlite", Path: storage.DefaultDBPath()},
		Surface: SurfaceConfig{Width: 960},
		Drawing: DrawingConfig{Color: "#ff4757", Width: 3, MaxPoints: 1000},
		Sync:    SyncConfig{DriftThresholdMs: 250, EndThresholdMs: 100},
		User:    UserConfig{Name: "Noah Green", Avatar: "https://i.pravatar.cc/100"},
		Video:   VideoConfig{DurationMs: 60_000, Tick: 100 * time.Millisecond},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.Storage.Backend = getEnv("FRAMEIO_STORAGE", cfg.Storage.Backend)
	cfg.Storage.Path = getEnv("FRAMEIO_DB_PATH", cfg.Storage.Path)
	cfg.Log.Level = getEnv("FRAMEIO_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("FRAMEIO_LOG_FORMAT", cfg.Log.Format)
	cfg.User.Name = getEnv("FRAMEIO_USER_NAME", cfg.User.Name)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path must be set for sqlite"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q: %w", c.Storage.Backend, storage.ErrUnknownBackend))
	}
	if c.Surface.Width <= 0 {
		errs = append(errs, errors.New("surface.width must be positive"))
	}
	if c.Drawing.Width <= 0 {
		errs = append(errs, errors.New("drawing.width must be positive"))
	}
	if c.Drawing.MaxPoints <= 0 {
		errs = append(errs, errors.New("drawing.max_points must be positive"))
	}
	if c.Sync.DriftThresholdMs <= 0 {
		errs = append(errs, errors.New("sync.drift_threshold_ms must be positive"))
	}
	if c.Sync.EndThresholdMs < 0 {
		errs = append(errs, errors.New("sync.end_threshold_ms must not be negative"))
	}
	if c.Video.Tick <= 0 {
		errs = append(errs, errors.New("video.tick must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
