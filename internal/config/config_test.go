package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.Start != "8:00 AM" {
		t.Errorf("expected grid start 8:00 AM, got %s", cfg.Grid.Start)
	}
	if cfg.Grid.End != "6:00 PM" {
		t.Errorf("expected grid end 6:00 PM, got %s", cfg.Grid.End)
	}
	if cfg.Grid.Interval != 15 {
		t.Errorf("expected interval 15, got %d", cfg.Grid.Interval)
	}
	if cfg.LLM.Provider != "copilot" {
		t.Errorf("expected provider copilot, got %s", cfg.LLM.Provider)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Server.Addr != ":5000" {
		t.Errorf("expected addr :5000, got %s", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.Start != "8:00 AM" {
		t.Errorf("expected default grid start, got %s", cfg.Grid.Start)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
start = "7:00 AM"
end = "9:00 PM"
interval = 30

[view]
mode = "week"

[llm]
provider = "ollama"
model = "llama3"
base_url = "http://localhost:11435"

[storage]
db_path = "/tmp/test.db"

[server]
addr = ":8080"
cors_origins = ["http://localhost:3000"]
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.Start != "7:00 AM" {
		t.Errorf("expected grid start 7:00 AM, got %s", cfg.Grid.Start)
	}
	if cfg.Grid.Interval != 30 {
		t.Errorf("expected interval 30, got %d", cfg.Grid.Interval)
	}
	if cfg.View.Mode != "week" {
		t.Errorf("expected view mode week, got %s", cfg.View.Mode)
	}
	if cfg.LLM.Model != "llama3" {
		t.Errorf("expected model llama3, got %s", cfg.LLM.Model)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected cors origins %v", cfg.Server.CORSOrigins)
	}
	// Unset sections keep their defaults.
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level, got %s", cfg.Log.Level)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
start = "7:00 AM"
end = "5:00 PM"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("EVENTIDE_GRID_START", "9:00 AM")
	t.Setenv("EVENTIDE_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("EVENTIDE_GRID_INTERVAL", "5")
	t.Setenv("EVENTIDE_CORS_ORIGINS", "http://a,http://b")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.Start != "9:00 AM" {
		t.Errorf("expected grid start 9:00 AM from env, got %s", cfg.Grid.Start)
	}
	if cfg.Grid.End != "5:00 PM" {
		t.Errorf("expected grid end 5:00 PM from file, got %s", cfg.Grid.End)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini from env, got %s", cfg.LLM.Model)
	}
	if cfg.Grid.Interval != 5 {
		t.Errorf("expected interval 5 from env, got %d", cfg.Grid.Interval)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("expected 2 cors origins, got %v", cfg.Server.CORSOrigins)
	}
}

func TestLoadFrom_BadIntervalEnv(t *testing.T) {
	t.Setenv("EVENTIDE_GRID_INTERVAL", "often")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Grid.Interval != 15 {
		t.Errorf("expected default interval, got %d", cfg.Grid.Interval)
	}
	if len(cfg.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", cfg.Warnings)
	}
}

func TestLoadFrom_NonPositiveInterval(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[grid]\ninterval = 0\n"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Grid.Interval != 15 {
		t.Errorf("expected interval to fall back to 15, got %d", cfg.Grid.Interval)
	}
	if len(cfg.Warnings) == 0 {
		t.Error("expected a warning for the non-positive interval")
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[grid\nstart = "), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad start", func(c *Config) { c.Grid.Start = "8 o'clock" }, true},
		{"start after end", func(c *Config) { c.Grid.Start = "6:00 PM"; c.Grid.End = "8:00 AM" }, true},
		{"end of day", func(c *Config) { c.Grid.Start = "6:00 PM"; c.Grid.End = "12:00 AM" }, false},
		{"24 hour clock", func(c *Config) { c.Grid.Start = "08:00"; c.Grid.End = "17:30" }, false},
		{"axis contains window", func(c *Config) { c.Grid.StartHour = 6; c.Grid.EndHour = 20 }, false},
		{"axis inside window", func(c *Config) { c.Grid.StartHour = 9; c.Grid.EndHour = 17 }, true},
		{"axis reversed", func(c *Config) { c.Grid.StartHour = 20; c.Grid.EndHour = 6 }, true},
		{"negative pixels", func(c *Config) { c.Grid.PixelHeight = -1 }, true},
		{"bad view mode", func(c *Config) { c.View.Mode = "month" }, true},
		{"bad backend", func(c *Config) { c.Storage.Backend = "postgres" }, true},
		{"remote without url", func(c *Config) { c.Storage.Backend = BackendRemote; c.Storage.RemoteURL = "" }, true},
		{"remote with url", func(c *Config) { c.Storage.Backend = BackendRemote }, false},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }, true},
		{"negative lead", func(c *Config) { c.Reminder.LeadMinutes = -5 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	cfg := Default()
	w, err := cfg.Window()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start != 480 || w.End != 1080 || w.Interval != 15 {
		t.Errorf("got %+v, want {480 1080 15}", w)
	}
}

func TestLayout(t *testing.T) {
	cfg := Default()
	cfg.Grid.StartHour = 6
	cfg.Grid.EndHour = 20

	lc, err := cfg.Layout()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lc.Window.Start != 480 || lc.Axis.StartHour != 6 || lc.Axis.EndHour != 20 {
		t.Errorf("got %+v", lc)
	}
	if lc.PixelHeight != 600 || lc.SmallEventPx != 78 || lc.BandHeightPx != 23 {
		t.Errorf("pixel metrics = %v %v %v", lc.PixelHeight, lc.SmallEventPx, lc.BandHeightPx)
	}

	cfg.Grid.Start = "noon"
	if _, err := cfg.Layout(); err == nil {
		t.Error("expected error for invalid grid start")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Grid.Start = "7:30 AM"
	cfg.Grid.End = "3:30 PM"
	cfg.UI.Theme = "mocha"
	cfg.Warnings = []string{"not persisted"}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Grid.Start != "7:30 AM" {
		t.Errorf("expected grid start 7:30 AM, got %s", loaded.Grid.Start)
	}
	if loaded.Grid.End != "3:30 PM" {
		t.Errorf("expected grid end 3:30 PM, got %s", loaded.Grid.End)
	}
	if loaded.UI.Theme != "mocha" {
		t.Errorf("expected theme mocha, got %s", loaded.UI.Theme)
	}
	if len(loaded.Warnings) != 0 {
		t.Errorf("warnings should not round-trip, got %v", loaded.Warnings)
	}
}
