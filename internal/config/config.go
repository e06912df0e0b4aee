// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/layout"
)

// Config holds the application configuration.
type Config struct {
	Grid     GridConfig     `toml:"grid"`
	View     ViewConfig     `toml:"view"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
	Reminder ReminderConfig `toml:"reminder"`

	// Warnings collects recoverable problems found while loading.
	Warnings []string `toml:"-"`
}

// GridConfig holds the day grid window and its drawing metrics.
type GridConfig struct {
	Start        string  `toml:"start"`          // e.g., "8:00 AM"
	End          string  `toml:"end"`            // e.g., "6:00 PM"
	Interval     int     `toml:"interval"`       // snapping granularity in minutes
	StartHour    int     `toml:"start_hour"`     // displayed axis, 0 and 0 derive it from start/end
	EndHour      int     `toml:"end_hour"`       //
	PixelHeight  float64 `toml:"pixel_height"`   // height of a day column in the API layout
	SmallEventPx float64 `toml:"small_event_px"` // blocks shorter than this use the side panel
	BandHeightPx float64 `toml:"band_height_px"` // height of one multi-day band
}

// ViewConfig holds the default displayed dates.
type ViewConfig struct {
	Mode string `toml:"mode"` // "single", "week", "range", "custom"
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "openai", "lmstudio", "ollama"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
	APIKey   string `toml:"api_key"`  // only for "openai"; prefer EVENTIDE_LLM_API_KEY
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Backend   string `toml:"backend"`    // "sqlite" or "remote"
	DBPath    string `toml:"db_path"`    // sqlite file
	RemoteURL string `toml:"remote_url"` // eventide server for the remote backend
}

// ServerConfig holds REST server settings.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	RateLimit   float64  `toml:"rate_limit"` // requests per second, 0 disables
	CORSOrigins []string `toml:"cors_origins"`
	Metrics     bool     `toml:"metrics"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "console" or "json"
	File   string `toml:"file"`   // empty logs to stderr
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte" or a theme file path
}

// ReminderConfig holds the reminder notifier settings.
type ReminderConfig struct {
	Schedule    string `toml:"schedule"`     // cron spec, e.g. "@every 1m"
	LeadMinutes int    `toml:"lead_minutes"` // notify this long before a reminder starts
}

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRemote = "remote"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Start:        "8:00 AM",
			End:          "6:00 PM",
			Interval:     event.DefaultInterval,
			PixelHeight:  600,
			SmallEventPx: 78,
			BandHeightPx: 23,
		},
		View: ViewConfig{
			Mode: "single",
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			DBPath:    defaultDBPath(),
			RemoteURL: "http://localhost:5000",
		},
		Server: ServerConfig{
			Addr:        ":5000",
			RateLimit:   20,
			CORSOrigins: []string{"*"},
			Metrics:     true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		UI: UIConfig{
			Theme: "frappe",
		},
		Reminder: ReminderConfig{
			Schedule:    "@every 1m",
			LeadMinutes: 10,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "eventide.db"
	}
	return filepath.Join(home, ".local", "share", "eventide", "eventide.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "eventide", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays the file if it exists, loads a .env file
// from the working directory, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// A missing .env is fine; variables already set win over it.
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if cfg.Grid.Interval <= 0 {
		cfg.Warnings = append(cfg.Warnings,
			fmt.Sprintf("grid interval %d is not positive, using %d", cfg.Grid.Interval, event.DefaultInterval))
		cfg.Grid.Interval = event.DefaultInterval
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	strs := map[string]*string{
		"EVENTIDE_GRID_START":      &cfg.Grid.Start,
		"EVENTIDE_GRID_END":        &cfg.Grid.End,
		"EVENTIDE_VIEW_MODE":       &cfg.View.Mode,
		"EVENTIDE_LLM_PROVIDER":    &cfg.LLM.Provider,
		"EVENTIDE_LLM_MODEL":       &cfg.LLM.Model,
		"EVENTIDE_LLM_BASE_URL":    &cfg.LLM.BaseURL,
		"EVENTIDE_LLM_API_KEY":     &cfg.LLM.APIKey,
		"EVENTIDE_STORAGE_BACKEND": &cfg.Storage.Backend,
		"EVENTIDE_DB_PATH":         &cfg.Storage.DBPath,
		"EVENTIDE_REMOTE_URL":      &cfg.Storage.RemoteURL,
		"EVENTIDE_SERVER_ADDR":     &cfg.Server.Addr,
		"EVENTIDE_LOG_LEVEL":       &cfg.Log.Level,
		"EVENTIDE_LOG_FORMAT":      &cfg.Log.Format,
		"EVENTIDE_LOG_FILE":        &cfg.Log.File,
		"EVENTIDE_UI_THEME":        &cfg.UI.Theme,
		"EVENTIDE_REMINDER_SPEC":   &cfg.Reminder.Schedule,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("EVENTIDE_GRID_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Grid.Interval = n
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring EVENTIDE_GRID_INTERVAL=%q", v))
		}
	}
	if v := os.Getenv("EVENTIDE_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validModes = map[string]bool{"single": true, "week": true, "range": true, "custom": true}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Window(); err != nil {
		return err
	}
	if c.Grid.StartHour != 0 || c.Grid.EndHour != 0 {
		if c.Grid.StartHour < 0 || c.Grid.EndHour > 24 || c.Grid.StartHour >= c.Grid.EndHour {
			return errors.New("start_hour and end_hour must satisfy 0 <= start_hour < end_hour <= 24")
		}
		w, _ := c.Window()
		if c.Grid.StartHour*60 > w.Start || c.Grid.EndHour*60 < w.End {
			return errors.New("start_hour and end_hour must contain the grid window")
		}
	}
	if c.Grid.PixelHeight < 0 || c.Grid.SmallEventPx < 0 || c.Grid.BandHeightPx < 0 {
		return errors.New("grid pixel sizes cannot be negative")
	}
	if !validModes[strings.ToLower(c.View.Mode)] {
		return fmt.Errorf("invalid view mode: %s", c.View.Mode)
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case BackendRemote:
		if c.Storage.RemoteURL == "" {
			return errors.New("remote_url must be set for the remote backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s", c.Storage.Backend)
	}
	if c.Server.RateLimit < 0 {
		return errors.New("rate_limit cannot be negative")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	if c.Reminder.LeadMinutes < 0 {
		return errors.New("lead_minutes cannot be negative")
	}
	return nil
}

// Window returns the configured grid window.
func (c *Config) Window() (event.Window, error) {
	w, err := event.NewWindow(c.Grid.Start, c.Grid.End, c.Grid.Interval)
	if err != nil {
		return event.Window{}, fmt.Errorf("grid: %w", err)
	}
	return w, nil
}

// Layout returns the layout configuration of the grid section.
func (c *Config) Layout() (layout.Config, error) {
	w, err := c.Window()
	if err != nil {
		return layout.Config{}, err
	}
	return layout.Config{
		Window:       w,
		Axis:         layout.Axis{StartHour: c.Grid.StartHour, EndHour: c.Grid.EndHour},
		PixelHeight:  c.Grid.PixelHeight,
		SmallEventPx: c.Grid.SmallEventPx,
		BandHeightPx: c.Grid.BandHeightPx,
	}, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
