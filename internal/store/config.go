package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fieldbuilder/internal/model"
)

const DefaultAPIURL = "http://localhost:3000/api/builder"

// Config holds user preferences. Zero values fall back to built-in defaults.
type Config struct {
	APIURL  string `json:"apiUrl,omitempty"`
	Backend string `json:"backend,omitempty"`

	// DataDir is where the persisted state lives. Defaults to the config dir.
	DataDir string `json:"dataDir,omitempty"`

	DebounceMs       int    `json:"debounceMs,omitempty"`
	StorageKey       string `json:"storageKey,omitempty"`
	RequestTimeoutMs int    `json:"requestTimeoutMs,omitempty"`
}

func (c Config) EffectiveAPIURL() string {
	if v := strings.TrimSpace(c.APIURL); v != "" {
		return v
	}
	return DefaultAPIURL
}

func (c Config) EffectiveBackend() string {
	if v := strings.TrimSpace(c.Backend); v != "" {
		return v
	}
	return BackendFile
}

func (c Config) Debounce() time.Duration {
	if c.DebounceMs > 0 {
		return time.Duration(c.DebounceMs) * time.Millisecond
	}
	return model.DebouncePeriod
}

func (c Config) Key() string {
	if v := strings.TrimSpace(c.StorageKey); v != "" {
		return v
	}
	return model.StorageKey
}

// RequestTimeout returns zero when unset, leaving the transport default in place.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutMs > 0 {
		return time.Duration(c.RequestTimeoutMs) * time.Millisecond
	}
	return 0
}

// ConfigKeys lists the keys accepted by Set, sorted.
func ConfigKeys() []string {
	return []string{"apiUrl", "backend", "dataDir", "debounceMs", "requestTimeoutMs", "storageKey"}
}

// Set assigns one config key from its string form. An empty value clears it.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "apiUrl":
		c.APIURL = value
	case "backend":
		if value != "" && !ValidBackend(value) {
			return fmt.Errorf("%w: %q", ErrUnknownBackend, value)
		}
		c.Backend = value
	case "dataDir":
		c.DataDir = value
	case "storageKey":
		c.StorageKey = value
	case "debounceMs", "requestTimeoutMs":
		n := 0
		if value != "" {
			v, err := strconv.Atoi(value)
			if err != nil || v < 0 {
				return fmt.Errorf("%s: expected a non-negative integer, got %q", key, value)
			}
			n = v
		}
		if key == "debounceMs" {
			c.DebounceMs = n
		} else {
			c.RequestTimeoutMs = n
		}
	default:
		return fmt.Errorf("unknown config key %q (expected one of: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return nil
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.fieldbuilder).
	if v := strings.TrimSpace(os.Getenv("FIELDBUILDER_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fieldbuilder"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Keep a copy of the previous config; failures here never block the save.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
