package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/eventide/internal/event"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		themeName string
		wantName  string
		wantErr   bool
	}{
		{
			name:      "load mocha theme",
			themeName: "mocha",
			wantName:  "mocha",
			wantErr:   false,
		},
		{
			name:      "load macchiato theme",
			themeName: "macchiato",
			wantName:  "macchiato",
			wantErr:   false,
		},
		{
			name:      "load frappe theme",
			themeName: "frappe",
			wantName:  "frappe",
			wantErr:   false,
		},
		{
			name:      "load latte theme",
			themeName: "latte",
			wantName:  "latte",
			wantErr:   false,
		},
		{
			name:      "load light theme",
			themeName: "light",
			wantName:  "light",
			wantErr:   false,
		},
		{
			name:      "empty name defaults to mocha",
			themeName: "",
			wantName:  "mocha",
			wantErr:   false,
		},
		{
			name:      "invalid theme falls back to mocha",
			themeName: "nonexistent",
			wantName:  "mocha",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, err := Load(tt.themeName)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Load(%q) expected error, got nil", tt.themeName)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load(%q) unexpected error: %v", tt.themeName, err)
			}
			if theme.Name != tt.wantName {
				t.Errorf("Load(%q).Name = %q, want %q", tt.themeName, theme.Name, tt.wantName)
			}
		})
	}
}

func TestLoad_ThemeColors(t *testing.T) {
	theme, err := Load("mocha")
	if err != nil {
		t.Fatalf("Load(mocha) unexpected error: %v", err)
	}

	// Verify all required colors are present and valid hex format
	colors := map[string]string{
		"Bg":              theme.Bg,
		"BgHighlight":     theme.BgHighlight,
		"BgSelection":     theme.BgSelection,
		"Fg":              theme.Fg,
		"FgMuted":         theme.FgMuted,
		"Accent":          theme.Accent,
		"Current":         theme.Current,
		"Warning":         theme.Warning,
		"Trivial":         theme.Trivial,
		"Ongoing":         theme.Ongoing,
		"AttentionNeeded": theme.AttentionNeeded,
		"Important":       theme.Important,
		"Critical":        theme.Critical,
	}

	for name, hex := range colors {
		if len(hex) != 7 {
			t.Errorf("theme.%s = %q, want 7-char hex string", name, hex)
			continue
		}
		if hex[0] != '#' {
			t.Errorf("theme.%s = %q, want hex string starting with #", name, hex)
		}
	}
}

func TestAvailable(t *testing.T) {
	available := Available()

	expected := []string{"mocha", "macchiato", "frappe", "latte", "light"}
	if len(available) != len(expected) {
		t.Errorf("Available() returned %d themes, want %d", len(available), len(expected))
	}

	for i, want := range expected {
		if i >= len(available) {
			break
		}
		if available[i] != want {
			t.Errorf("Available()[%d] = %q, want %q", i, available[i], want)
		}
	}
}

func TestIsAvailable(t *testing.T) {
	tests := []struct {
		name     string
		theme    string
		expected bool
	}{
		{name: "exact match", theme: "mocha", expected: true},
		{name: "case insensitive", theme: "Mocha", expected: true},
		{name: "missing theme", theme: "unknown", expected: false},
		{name: "auto", theme: "auto", expected: true},
		{name: "custom file", theme: "~/themes/solar.toml", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAvailable(tt.theme); got != tt.expected {
				t.Errorf("IsAvailable(%q) = %t, want %t", tt.theme, got, tt.expected)
			}
		})
	}
}

func TestColor(t *testing.T) {
	hex := "#89b4fa"
	c := Color(hex)
	if string(c) != hex {
		t.Errorf("Color(%q) = %q, want %q", hex, string(c), hex)
	}
}

func TestUrgency(t *testing.T) {
	theme, err := Load("light")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		urgency event.Urgency
		want    string
	}{
		{event.UrgencyTrivial, theme.Trivial},
		{event.UrgencyOngoing, theme.Ongoing},
		{event.UrgencyAttentionNeeded, theme.AttentionNeeded},
		{event.UrgencyImportant, theme.Important},
		{event.UrgencyCritical, theme.Critical},
		{"unknown", theme.Trivial},
	}
	for _, tt := range tests {
		if got := theme.Urgency(tt.urgency); got != tt.want {
			t.Errorf("Urgency(%q) = %q, want %q", tt.urgency, got, tt.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solar.toml")
	content := "base = \"latte\"\ncritical = \"#ff00ff\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	latte, _ := Load("latte")
	if got.Name != "solar" {
		t.Errorf("Name = %q, want solar", got.Name)
	}
	if got.Critical != "#ff00ff" {
		t.Errorf("Critical = %q, want override", got.Critical)
	}
	if got.Bg != latte.Bg {
		t.Errorf("Bg = %q, want base color %q", got.Bg, latte.Bg)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("LoadFile(missing) should fail")
	}
}

func TestResolve(t *testing.T) {
	got, err := Resolve("frappe")
	if err != nil || got.Name != "frappe" {
		t.Fatalf("Resolve(frappe) = %v, %v", got, err)
	}
	got, err = Resolve(Auto)
	if err != nil {
		t.Fatalf("Resolve(auto) error = %v", err)
	}
	if got.Name != "mocha" && got.Name != "latte" {
		t.Errorf("Resolve(auto).Name = %q, want mocha or latte", got.Name)
	}
}
