// Package config loads feyndraw settings from a TOML file.
//
// A missing file is not an error; every field has a default. Example:
//
//	[render]
//	formats = ["svg", "png"]
//	padding = 20.0
//	png_scale = 2.0
//
//	[stroke.wavy]
//	amplitude = 2.6
//	wavelength = 15.0
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/stroke"
)

const appName = "feyndraw"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Formats accepted in [render] formats.
var Formats = []string{"svg", "png", "pdf", "json", "dot"}

// Config is the full configuration file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Stroke StrokeConfig `toml:"stroke"`
	Marker MarkerConfig `toml:"marker"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig holds defaults for the render command and endpoint.
type RenderConfig struct {
	Formats    []string `toml:"formats"`
	Padding    float64  `toml:"padding"`
	PNGScale   float64  `toml:"png_scale"`
	Background string   `toml:"background"`
	FontSize   float64  `toml:"font_size"`
}

// WaveConfig shapes a decorated stroke, in editor px.
type WaveConfig struct {
	Amplitude  float64 `toml:"amplitude"`
	Wavelength float64 `toml:"wavelength"`
}

// StrokeConfig holds the photon and gluon line shapes.
type StrokeConfig struct {
	Wavy   WaveConfig `toml:"wavy"`
	Spring WaveConfig `toml:"spring"`
}

// MarkerConfig sizes arrowheads and crosses.
type MarkerConfig struct {
	ArrowSize float64 `toml:"arrow_size"`
	CrossSize float64 `toml:"cross_size"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	Prefix    string   `toml:"prefix"`
	TTL       Duration `toml:"ttl"`
}

// ServerConfig configures `feyndraw serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
	Timeout      Duration `toml:"timeout"`
}

// Duration is a time.Duration read from a string like "90s".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Formats:  []string{"svg"},
			Padding:  20,
			PNGScale: 2,
			FontSize: 14,
		},
		Stroke: StrokeConfig{
			Wavy:   WaveConfig{Amplitude: stroke.DefaultWavy.Amplitude, Wavelength: stroke.DefaultWavy.Wavelength},
			Spring: WaveConfig{Amplitude: stroke.DefaultSpring.Amplitude, Wavelength: stroke.DefaultSpring.Wavelength},
		},
		Marker: MarkerConfig{
			ArrowSize: stroke.DefaultArrowSize,
			CrossSize: stroke.DefaultCrossSize,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Prefix:  appName + ":",
			TTL:     Duration{24 * time.Hour},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
			Timeout:      Duration{30 * time.Second},
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults;
// unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Write encodes cfg as TOML to path, creating parent directories.
func Write(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	for _, f := range c.Render.Formats {
		if !slices.Contains(Formats, f) {
			errs = append(errs, fmt.Errorf("render.formats: unknown format %q", f))
		}
	}
	if c.Render.Padding < 0 {
		errs = append(errs, errors.New("render.padding must not be negative"))
	}
	if c.Render.PNGScale <= 0 {
		errs = append(errs, errors.New("render.png_scale must be positive"))
	}
	if c.Render.FontSize <= 0 {
		errs = append(errs, errors.New("render.font_size must be positive"))
	}
	if c.Render.Background != "" {
		if _, err := diagram.ParseHexColor(c.Render.Background); err != nil {
			errs = append(errs, fmt.Errorf("render.background: %w", err))
		}
	}
	for name, w := range map[string]WaveConfig{"wavy": c.Stroke.Wavy, "spring": c.Stroke.Spring} {
		if w.Amplitude < 0 || w.Wavelength <= 0 {
			errs = append(errs, fmt.Errorf("stroke.%s: amplitude must be >= 0 and wavelength > 0", name))
		}
	}
	if c.Marker.ArrowSize <= 0 || c.Marker.CrossSize <= 0 {
		errs = append(errs, errors.New("marker sizes must be positive"))
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend))
	}
	if c.Cache.TTL.Duration < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}
	return errors.Join(errs...)
}

// Generator returns the stroke generator described by the config.
func (c Config) Generator() stroke.Generator {
	return stroke.Generator{
		Wavy:      stroke.Wave{Amplitude: c.Stroke.Wavy.Amplitude, Wavelength: c.Stroke.Wavy.Wavelength},
		Spring:    stroke.Wave{Amplitude: c.Stroke.Spring.Amplitude, Wavelength: c.Stroke.Spring.Wavelength},
		ArrowSize: c.Marker.ArrowSize,
		CrossSize: c.Marker.CrossSize,
	}
}

// DefaultPath returns the config file location using XDG standard
// (~/.config/feyndraw/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns the cache directory using XDG standard
// (~/.cache/feyndraw/).
func DefaultCacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// CacheDir returns the configured cache directory or the XDG default.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}
