// Package config provides persistent configuration for the miqat CLI.
//
// Configuration is stored as JSON at ~/.config/miqat/config.json
// (XDG-compliant). The merge priority is: CLI flags > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"miqat/internal/method"
	"miqat/internal/prayer"
)

const (
	configDirName  = "miqat"
	configFileName = "config.json"
)

// Cache backend identifiers.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"latitude", "longitude", "timezone",
	"method", "madhab", "high_lat",
	"fajr_angle", "isha_angle", "isha_interval",
	"time_format", "prayers",
	"cache_dir", "cache_backend",
}

// Config holds all user-configurable settings.
// Nil/empty values mean "not set" (use defaults or auto-detect).
type Config struct {
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Timezone     string   `json:"timezone,omitempty"`
	Method       string   `json:"method,omitempty"`   // e.g. "mwl", "isna", "custom"
	Madhab       string   `json:"madhab,omitempty"`   // "shafi" or "hanafi"
	HighLat      string   `json:"high_lat,omitempty"` // override; empty = method default
	FajrAngle    *float64 `json:"fajr_angle,omitempty"`
	IshaAngle    *float64 `json:"isha_angle,omitempty"`
	IshaInterval *int     `json:"isha_interval,omitempty"`
	TimeFormat   string   `json:"time_format,omitempty"` // "12h" or "24h"
	Prayers      string   `json:"prayers,omitempty"`     // comma-separated list
	CacheDir     string   `json:"cache_dir,omitempty"`
	CacheBackend string   `json:"cache_backend,omitempty"` // "file" or "sqlite"
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		Method:       method.MuslimWorldLeague.String(),
		Madhab:       method.Shafi.String(),
		TimeFormat:   "24h",
		CacheBackend: BackendFile,
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid JSON, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "latitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: must be a number", value)
		}
		if v < -90 || v > 90 {
			return fmt.Errorf("invalid latitude %q: must be between -90 and 90", value)
		}
		c.Latitude = &v
	case "longitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: must be a number", value)
		}
		if v < -180 || v > 180 {
			return fmt.Errorf("invalid longitude %q: must be between -180 and 180", value)
		}
		c.Longitude = &v
	case "timezone":
		c.Timezone = value
	case "method":
		m, err := method.Parse(value)
		if err != nil {
			return err
		}
		c.Method = m.String()
	case "madhab":
		m, err := method.ParseMadhab(value)
		if err != nil {
			return err
		}
		c.Madhab = m.String()
	case "high_lat":
		r, err := method.ParseHighLatRule(value)
		if err != nil {
			return err
		}
		c.HighLat = r.String()
	case "fajr_angle":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid fajr_angle %q: must be a number", value)
		}
		if v <= 0 || v >= 90 {
			return fmt.Errorf("invalid fajr_angle %q: must be between 0 and 90 exclusive", value)
		}
		c.FajrAngle = &v
	case "isha_angle":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid isha_angle %q: must be a number", value)
		}
		if v <= 0 || v >= 90 {
			return fmt.Errorf("invalid isha_angle %q: must be between 0 and 90 exclusive", value)
		}
		c.IshaAngle = &v
	case "isha_interval":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid isha_interval %q: must be an integer", value)
		}
		if v < 0 {
			return fmt.Errorf("invalid isha_interval %q: must not be negative", value)
		}
		c.IshaInterval = &v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "prayers":
		names := strings.Split(value, ",")
		for _, n := range names {
			n = strings.TrimSpace(n)
			if !prayer.ValidName(n) {
				return fmt.Errorf("invalid prayer name %q in prayers list", n)
			}
		}
		c.Prayers = value
	case "cache_dir":
		c.CacheDir = value
	case "cache_backend":
		if value != BackendFile && value != BackendSQLite {
			return fmt.Errorf("invalid cache_backend %q: must be %q or %q", value, BackendFile, BackendSQLite)
		}
		c.CacheBackend = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "latitude":
		return formatFloat(c.Latitude), nil
	case "longitude":
		return formatFloat(c.Longitude), nil
	case "timezone":
		return c.Timezone, nil
	case "method":
		return c.Method, nil
	case "madhab":
		return c.Madhab, nil
	case "high_lat":
		return c.HighLat, nil
	case "fajr_angle":
		return formatFloat(c.FajrAngle), nil
	case "isha_angle":
		return formatFloat(c.IshaAngle), nil
	case "isha_interval":
		if c.IshaInterval == nil {
			return "", nil
		}
		return strconv.Itoa(*c.IshaInterval), nil
	case "time_format":
		return c.TimeFormat, nil
	case "prayers":
		return c.Prayers, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "cache_backend":
		return c.CacheBackend, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// MethodOrDefault returns the configured method, falling back to the default.
func (c *Config) MethodOrDefault() method.Method {
	if c.Method != "" {
		if m, err := method.Parse(c.Method); err == nil {
			return m
		}
	}
	return method.MuslimWorldLeague
}

// MadhabOrDefault returns the configured madhab, falling back to the default.
func (c *Config) MadhabOrDefault() method.Madhab {
	if c.Madhab != "" {
		if m, err := method.ParseMadhab(c.Madhab); err == nil {
			return m
		}
	}
	return method.Shafi
}
