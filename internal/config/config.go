// Package config handles modelgraph configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matsen/modelgraph/internal/datasource"
	"github.com/matsen/modelgraph/internal/gate"
	"github.com/matsen/modelgraph/internal/viz"
)

// Config is the full server and CLI configuration.
type Config struct {
	ListenAddr   string           `yaml:"listen_addr" validate:"required,hostname_port"`
	Password     string           `yaml:"password,omitempty"`
	PasswordHash string           `yaml:"password_hash,omitempty"`
	Source       SourceConfig     `yaml:"source"`
	Viewport     ViewportConfig   `yaml:"viewport"`
	Layout       viz.LayoutConfig `yaml:"layout"`
	Logging      LoggingConfig    `yaml:"logging"`
	LoginRate    float64          `yaml:"login_rate" validate:"gte=0"` // Attempts per second, 0 disables limiting
	LoginBurst   int              `yaml:"login_burst" validate:"gte=0"`
	SessionTTL   time.Duration    `yaml:"session_ttl" validate:"gt=0"`
	TempDir      string           `yaml:"temp_dir,omitempty"` // Artifact directory, system default when empty
}

// SourceConfig selects where entities and relationships come from.
type SourceConfig struct {
	Kind string `yaml:"kind" validate:"oneof=static jsonl sqlite"`
	Path string `yaml:"path,omitempty" validate:"required_unless=Kind static"`
}

// ViewportConfig sizes the embedded diagram.
type ViewportConfig struct {
	Height int    `yaml:"height" validate:"gt=0"`
	Width  string `yaml:"width" validate:"required"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Defaults.
const (
	DefaultListenAddr = ":8501"
	DefaultSessionTTL = 12 * time.Hour
	DefaultLoginBurst = 5
)

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	return &Config{
		ListenAddr: DefaultListenAddr,
		Source:     SourceConfig{Kind: datasource.KindStatic},
		Viewport:   ViewportConfig{Height: viz.DefaultHeight, Width: viz.DefaultWidth},
		Layout:     viz.DefaultLayoutConfig(),
		Logging:    LoggingConfig{Level: "info", Format: "text"},
		LoginBurst: DefaultLoginBurst,
		SessionTTL: DefaultSessionTTL,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrPasswordConflict is returned when both a plaintext password and a hash are set.
var ErrPasswordConflict = errors.New("password and password_hash are mutually exclusive")

// Validate checks every field, including the layout and viewport settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Password != "" && c.PasswordHash != "" {
		return ErrPasswordConflict
	}
	opts := c.ViewOptions()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ViewOptions returns the document options for the configured viewport and layout.
func (c *Config) ViewOptions() viz.Options {
	opts := viz.DefaultOptions()
	opts.Layout = c.Layout
	opts.Height = c.Viewport.Height
	opts.Width = c.Viewport.Width
	return opts
}

// Verifier returns the credential verifier. A hash selects bcrypt; a password
// overrides the built-in plaintext value; otherwise the built-in value is used.
func (c *Config) Verifier() (gate.Verifier, error) {
	switch {
	case c.PasswordHash != "":
		return gate.NewBcrypt(c.PasswordHash)
	case c.Password != "":
		return gate.Plaintext{Expected: c.Password}, nil
	default:
		return gate.Plaintext{Expected: gate.DefaultPassword}, nil
	}
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
