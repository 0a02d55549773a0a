package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Player backends.
const (
	BackendInternal = "internal"
	BackendMPV      = "mpv"
)

// Config represents the application configuration.
type Config struct {
	Vault  VaultConfig  `yaml:"vault"`
	Player PlayerConfig `yaml:"player"`
	UI     UIConfig     `yaml:"ui"`
	Log    LogConfig    `yaml:"log"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Player.Validate(); err != nil {
		return err
	}
	return c.UI.Validate()
}

// VaultConfig holds the directory documents and media live in.
type VaultConfig struct {
	Path string `yaml:"path"`
}

func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// PlayerConfig selects and tunes the playback clock.
type PlayerConfig struct {
	Backend     string  `yaml:"backend"`
	MPVPath     string  `yaml:"mpv_path"`
	Socket      string  `yaml:"socket"`
	FFprobePath string  `yaml:"ffprobe_path"`
	SkipSeconds float64 `yaml:"skip_seconds"`
	Rate        float64 `yaml:"rate"`
	Loop        bool    `yaml:"loop"`
	Autoplay    bool    `yaml:"autoplay"`
}

func (c *PlayerConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = BackendInternal
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendInternal, BackendMPV)),
		validation.Field(&c.SkipSeconds, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&c.Rate, validation.Required, validation.Min(0.25), validation.Max(4.0)),
	)
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Tick    time.Duration `yaml:"tick"`
	Preview bool          `yaml:"preview"`
}

func (c *UIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Tick, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

// LogConfig holds logging settings. An empty File discards logs; the
// terminal belongs to the UI.
type LogConfig struct {
	Level slog.Level `yaml:"level"`
	File  string     `yaml:"file"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Vault: VaultConfig{
			Path: ".",
		},
		Player: PlayerConfig{
			Backend:     BackendInternal,
			MPVPath:     "mpv",
			FFprobePath: "ffprobe",
			SkipSeconds: 5,
			Rate:        1,
		},
		UI: UIConfig{
			Tick:    250 * time.Millisecond,
			Preview: true,
		},
		Log: LogConfig{
			Level: slog.LevelInfo,
		},
	}
}

// DefaultPath is where the config file lives unless told otherwise.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "vnote.yaml"
	}
	return filepath.Join(dir, "vnote", "config.yaml")
}
