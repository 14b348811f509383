package vkinit

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Stage selects how far initialization goes. Each stage includes the ones
// before it.
type Stage int

const (
	// StageBase opens a window and idles.
	StageBase Stage = iota
	// StageInstance creates the instance.
	StageInstance
	// StageValidation enables validation layers and the diagnostics hook.
	StageValidation
	// StageLogicalDevice selects a GPU and creates a logical device with a graphics queue.
	StageLogicalDevice
	// StageSurface binds a surface and adds a present queue.
	StageSurface
)

var stageNames = []string{"base", "instance", "validation", "logicaldevice", "surface"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

func (s Stage) MarshalText() ([]byte, error) {
	if s.String() == "unknown" {
		return nil, errors.Errorf("invalid stage %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range stageNames {
		if n == name {
			*s = Stage(i)
			return nil
		}
	}
	return errors.Errorf("unknown stage %q", string(text))
}

// ConfigEnv names the environment variable holding a config file path.
const ConfigEnv = "VKINIT_CONFIG"

// ValidationEnv disables validation when set to 0 or false.
const ValidationEnv = "VK_VALIDATION"

// Config is the immutable configuration of a GraphicsApp.
type Config struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Title     string `toml:"title"`
	Resizable bool   `toml:"resizable"`

	AppName       string  `toml:"app_name"`
	AppVersion    Version `toml:"app_version"`
	EngineName    string  `toml:"engine_name"`
	EngineVersion Version `toml:"engine_version"`
	APIVersion    Version `toml:"api_version"`

	Stage Stage `toml:"stage"`

	EnableValidation bool     `toml:"enable_validation"`
	ValidationLayers []string `toml:"validation_layers"`

	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the settings the tutorial programs use.
func DefaultConfig() Config {
	return Config{
		Width:            800,
		Height:           600,
		Title:            "Vulkan",
		AppName:          "Hello Triangle",
		AppVersion:       Version{Major: 1},
		EngineName:       "No Engine",
		EngineVersion:    Version{Major: 1},
		APIVersion:       Version{Major: 1},
		Stage:            StageSurface,
		EnableValidation: true,
		ValidationLayers: []string{KhronosValidationLayer},
		LogLevel:         "info",
	}
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, cfg.Validate()
}

// ConfigFromEnv loads the file named by VKINIT_CONFIG, if any, and applies
// environment overrides. stage replaces the configured stage when not nil.
func ConfigFromEnv(stage *Stage) (Config, error) {
	cfg := DefaultConfig()
	if path := os.Getenv(ConfigEnv); path != "" {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return cfg, err
		}
	}
	if stage != nil {
		cfg.Stage = *stage
	}
	cfg = cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv returns a copy of c with environment overrides applied.
func (c Config) ApplyEnv() Config {
	switch strings.ToLower(os.Getenv(ValidationEnv)) {
	case "0", "false", "off":
		c.EnableValidation = false
	}
	return c
}

// Validate checks the config for values initialization cannot work with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.Stage < StageBase || c.Stage > StageSurface {
		return errors.Errorf("invalid stage %d", int(c.Stage))
	}
	if c.EnableValidation && c.Stage >= StageValidation && len(c.ValidationLayers) == 0 {
		return errors.New("validation enabled with no validation layers")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Validation reports whether this config turns on validation layers and the
// diagnostics hook.
func (c Config) Validation() bool {
	return c.EnableValidation && c.Stage >= StageValidation
}

// App returns the application description used to create the instance.
func (c Config) App() *App {
	a := &App{
		Name:          c.AppName,
		EngineName:    c.EngineName,
		Version:       c.AppVersion,
		EngineVersion: c.EngineVersion,
		APIVersion:    c.APIVersion,
	}
	if c.Validation() {
		a.EnableDebugging(c.ValidationLayers...)
	}
	return a
}

// ParseLevel converts a level name to a slog.Level. The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, errors.Wrapf(err, "invalid log level %q", s)
	}
	return l, nil
}
