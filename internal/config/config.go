// Package config loads and merges devpulse settings from the global and
// project JSON config files.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Bounds for the numeric settings. Out-of-range values are clamped; values
// that cannot be parsed at all fall back to the defaults. Initialization
// never aborts over configuration.
const (
	DefaultRingCapacity = 200
	MinRingCapacity     = 50
	MaxRingCapacity     = 1000

	DefaultWindowSeconds = 60
	MinWindowSeconds     = 10
	MaxWindowSeconds     = 300

	DefaultMaxDiagnostics = 50
	MinMaxDiagnostics     = 10
	MaxMaxDiagnostics     = 200
)

// Config holds all configurable devpulse settings.
type Config struct {
	RingCapacity   int      `json:"ring_capacity"`
	WindowSeconds  int      `json:"window_seconds"`
	MaxDiagnostics int      `json:"max_diagnostics"`
	FeedPath       string   `json:"feed_path"`    // editor-bridge JSONL stream, "-" for stdin
	DeliveryURL    string   `json:"delivery_url"` // optional HTTP bundle endpoint
	IgnorePatterns []string `json:"ignore_patterns"`
}

// Defaults returns the stock configuration.
func Defaults() Config {
	return Config{
		RingCapacity:   DefaultRingCapacity,
		WindowSeconds:  DefaultWindowSeconds,
		MaxDiagnostics: DefaultMaxDiagnostics,
		IgnorePatterns: []string{},
	}
}

// Load reads the global and project files, merges them, and normalizes the
// result. Files that are missing or unparseable degrade to defaults; the
// returned warnings describe anything that was ignored.
func Load() (Config, []string) {
	var warnings []string

	global, err := LoadGlobal()
	if err != nil {
		warnings = append(warnings, "ignoring global config: "+err.Error())
		global = nil
	}
	project, err := LoadProject()
	if err != nil {
		warnings = append(warnings, "ignoring project config: "+err.Error())
		project = nil
	}

	cfg := Merge(global, project)
	cfg, clampWarnings := Normalize(cfg)
	return cfg, append(warnings, clampWarnings...)
}

// LoadGlobal reads ~/.config/devpulse/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "devpulse", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .devpulseconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".devpulseconfig", false)
}

func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	for _, layer := range []*Config{global, project} {
		if layer == nil {
			continue
		}
		if layer.RingCapacity != 0 {
			result.RingCapacity = layer.RingCapacity
		}
		if layer.WindowSeconds != 0 {
			result.WindowSeconds = layer.WindowSeconds
		}
		if layer.MaxDiagnostics != 0 {
			result.MaxDiagnostics = layer.MaxDiagnostics
		}
		if layer.FeedPath != "" {
			result.FeedPath = layer.FeedPath
		}
		if layer.DeliveryURL != "" {
			result.DeliveryURL = layer.DeliveryURL
		}
		if len(layer.IgnorePatterns) > 0 {
			result.IgnorePatterns = layer.IgnorePatterns
		}
	}

	return result
}

// Normalize forces the numeric settings into their documented bounds.
// Negative values mean someone fat-fingered the file; they get the default.
func Normalize(cfg Config) (Config, []string) {
	var warnings []string
	clamp := func(name string, v, def, min, max int) int {
		switch {
		case v <= 0:
			warnings = append(warnings, name+" invalid, using default")
			return def
		case v < min:
			warnings = append(warnings, name+" below minimum, clamped")
			return min
		case v > max:
			warnings = append(warnings, name+" above maximum, clamped")
			return max
		default:
			return v
		}
	}
	cfg.RingCapacity = clamp("ring_capacity", cfg.RingCapacity, DefaultRingCapacity, MinRingCapacity, MaxRingCapacity)
	cfg.WindowSeconds = clamp("window_seconds", cfg.WindowSeconds, DefaultWindowSeconds, MinWindowSeconds, MaxWindowSeconds)
	cfg.MaxDiagnostics = clamp("max_diagnostics", cfg.MaxDiagnostics, DefaultMaxDiagnostics, MinMaxDiagnostics, MaxMaxDiagnostics)
	return cfg, warnings
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
