package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds every recognized photowall option.
type Config struct {
	ListURL string

	PollInterval   time.Duration
	InitialDelay   time.Duration
	RevealDuration time.Duration
	SettleDuration time.Duration
	MoveDuration   time.Duration
	ResizeDuration time.Duration
	RequestTimeout time.Duration

	Columns        int
	ViewportWidth  float64
	ViewportHeight float64
	Spacing        float64
	RevealSize     float64

	Identity string
	Theme    string

	Store   StoreConfig
	Logging LoggingConfig
}

// StoreConfig selects the known-set persistence backend.
type StoreConfig struct {
	Backend string
	Path    string
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	File  string
	Level string
}

const (
	defaultConfigPath = "~/.config/photowall/config.toml"
	defaultStorePath  = "~/.local/share/photowall/known.db"
	defaultLogFile    = "~/.local/share/photowall/photowall.log"

	defaultListURL        = "https://abbinj3.sg-host.com/list.php"
	defaultPollInterval   = 10 * time.Second
	defaultRevealDuration = 600 * time.Millisecond
	defaultSettleDuration = 5 * time.Second
	defaultMoveDuration   = 600 * time.Millisecond
	defaultResizeDuration = 400 * time.Millisecond
	defaultRequestTimeout = 30 * time.Second

	defaultColumns        = 9
	defaultViewportWidth  = 1920.0
	defaultViewportHeight = 1080.0
	defaultSpacing        = 10.0
	defaultRevealSize     = 540.0

	defaultIdentity     = "normalized"
	defaultStoreBackend = "bolt"
	defaultLogLevel     = "INFO"
	defaultTheme        = "Nightfox"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ListURL:        defaultListURL,
		PollInterval:   defaultPollInterval,
		RevealDuration: defaultRevealDuration,
		SettleDuration: defaultSettleDuration,
		MoveDuration:   defaultMoveDuration,
		ResizeDuration: defaultResizeDuration,
		RequestTimeout: defaultRequestTimeout,
		Columns:        defaultColumns,
		ViewportWidth:  defaultViewportWidth,
		ViewportHeight: defaultViewportHeight,
		Spacing:        defaultSpacing,
		RevealSize:     defaultRevealSize,
		Identity:       defaultIdentity,
		Theme:          defaultTheme,
		Store: StoreConfig{
			Backend: defaultStoreBackend,
			Path:    mustExpand(defaultStorePath),
		},
		Logging: LoggingConfig{
			File:  mustExpand(defaultLogFile),
			Level: defaultLogLevel,
		},
	}
}

type fileConfig struct {
	ListURL        string   `toml:"list_url"`
	PollInterval   *float64 `toml:"poll_interval"`
	InitialDelay   *float64 `toml:"initial_delay"`
	RevealDuration *float64 `toml:"reveal_duration"`
	SettleDuration *float64 `toml:"settle_duration"`
	MoveDuration   *float64 `toml:"move_duration"`
	ResizeDuration *float64 `toml:"resize_duration"`
	RequestTimeout *float64 `toml:"request_timeout"`

	Columns        int      `toml:"columns"`
	ViewportWidth  float64  `toml:"viewport_width"`
	ViewportHeight float64  `toml:"viewport_height"`
	Spacing        *float64 `toml:"spacing"`
	RevealSize     float64  `toml:"reveal_size"`

	Identity string `toml:"identity"`
	Theme    string `toml:"theme"`

	Store struct {
		Backend string `toml:"backend"`
		Path    string `toml:"path"`
	} `toml:"store"`
	Logging struct {
		File  string `toml:"file"`
		Level string `toml:"level"`
	} `toml:"logging"`
}

// Load reads the config at path (or the default path), falling back to
// defaults for a missing file and for empty or non-positive values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.ListURL); v != "" {
		cfg.ListURL = v
	}
	cfg.PollInterval = positiveSeconds(raw.PollInterval, cfg.PollInterval)
	cfg.RevealDuration = positiveSeconds(raw.RevealDuration, cfg.RevealDuration)
	cfg.SettleDuration = nonNegativeSeconds(raw.SettleDuration, cfg.SettleDuration)
	cfg.MoveDuration = positiveSeconds(raw.MoveDuration, cfg.MoveDuration)
	cfg.ResizeDuration = nonNegativeSeconds(raw.ResizeDuration, cfg.ResizeDuration)
	cfg.RequestTimeout = positiveSeconds(raw.RequestTimeout, cfg.RequestTimeout)
	cfg.InitialDelay = nonNegativeSeconds(raw.InitialDelay, cfg.InitialDelay)

	if raw.Columns > 0 {
		cfg.Columns = raw.Columns
	}
	if raw.ViewportWidth > 0 {
		cfg.ViewportWidth = raw.ViewportWidth
	}
	if raw.ViewportHeight > 0 {
		cfg.ViewportHeight = raw.ViewportHeight
	}
	if raw.Spacing != nil && *raw.Spacing >= 0 {
		cfg.Spacing = *raw.Spacing
	}
	if raw.RevealSize > 0 {
		cfg.RevealSize = raw.RevealSize
	}

	switch identity := strings.ToLower(strings.TrimSpace(raw.Identity)); identity {
	case "":
	case "normalized", "raw":
		cfg.Identity = identity
	default:
		return Config{}, fmt.Errorf("parse config: unknown identity %q", raw.Identity)
	}
	if v := strings.TrimSpace(raw.Theme); v != "" {
		cfg.Theme = v
	}

	if v := strings.TrimSpace(raw.Store.Backend); v != "" {
		cfg.Store.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Store.Path); v != "" {
		cfg.Store.Path = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Logging.File); v != "" {
		cfg.Logging.File = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Logging.Level); v != "" {
		cfg.Logging.Level = strings.ToUpper(v)
	}

	return cfg, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func positiveSeconds(v *float64, fallback time.Duration) time.Duration {
	if v == nil || *v <= 0 {
		return fallback
	}
	return seconds(*v)
}

func nonNegativeSeconds(v *float64, fallback time.Duration) time.Duration {
	if v == nil || *v < 0 {
		return fallback
	}
	return seconds(*v)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
