package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/config"
	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  eventide config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), path)
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "Config file (default: ~/.config/eventide/config.toml)")
	return cmd
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{reader: reader, out: out}
	cfg.Grid.Start = p.value("Grid start", cfg.Grid.Start)
	cfg.Grid.End = p.value("Grid end", cfg.Grid.End)
	cfg.Grid.Interval = p.number("Snap interval (minutes)", cfg.Grid.Interval)
	cfg.View.Mode = p.choice("View mode", cfg.View.Mode, viewModeNames())
	cfg.LLM.Provider = p.choice("LLM provider", cfg.LLM.Provider, []string{"copilot", "openai", "lmstudio", "ollama"})
	cfg.LLM.Model = p.value("LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = p.value("LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.Backend = p.choice("Storage backend", cfg.Storage.Backend, []string{config.BackendSQLite, config.BackendRemote})
	if cfg.Storage.Backend == config.BackendRemote {
		cfg.Storage.RemoteURL = p.value("Remote server URL", cfg.Storage.RemoteURL)
	} else {
		cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	}
	cfg.UI.Theme = p.theme(cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[grid]")
	fmt.Fprintf(w, "  start          = %s\n", cfg.Grid.Start)
	fmt.Fprintf(w, "  end            = %s\n", cfg.Grid.End)
	fmt.Fprintf(w, "  interval       = %d\n", cfg.Grid.Interval)
	fmt.Fprintln(w, "\n[view]")
	fmt.Fprintf(w, "  mode           = %s\n", cfg.View.Mode)
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider       = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model          = %s\n", cfg.LLM.Model)
	fmt.Fprintf(w, "  base_url       = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  backend        = %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendRemote {
		fmt.Fprintf(w, "  remote_url     = %s\n", cfg.Storage.RemoteURL)
	} else {
		fmt.Fprintf(w, "  db_path        = %s\n", cfg.Storage.DBPath)
	}
	fmt.Fprintln(w, "\n[server]")
	fmt.Fprintf(w, "  addr           = %s\n", cfg.Server.Addr)
	fmt.Fprintf(w, "  metrics        = %t\n", cfg.Server.Metrics)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme          = %s\n", cfg.UI.Theme)
	fmt.Fprintln(w, "\n[reminder]")
	fmt.Fprintf(w, "  schedule       = %s\n", cfg.Reminder.Schedule)
	fmt.Fprintf(w, "  lead_minutes   = %d\n", cfg.Reminder.LeadMinutes)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

// prompter asks for config values one line at a time. An empty answer
// keeps the current value.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.out, "  %s: ", label)
	} else {
		fmt.Fprintf(p.out, "  %s [%s]: ", label, current)
	}
	input, _ := p.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) number(label string, current int) int {
	for {
		value := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n > 0 {
			return n
		}
		fmt.Fprintf(p.out, "  Invalid number %q\n", value)
		if p.exhausted() {
			return current
		}
	}
}

func (p prompter) choice(label, current string, options []string) string {
	label = fmt.Sprintf("%s (%s)", label, strings.Join(options, ", "))
	for {
		value := strings.ToLower(p.value(label, current))
		for _, o := range options {
			if o == value {
				return value
			}
		}
		fmt.Fprintf(p.out, "  Invalid value %q. Available: %s\n", value, strings.Join(options, ", "))
		if p.exhausted() {
			return current
		}
	}
}

func (p prompter) theme(current string) string {
	options := strings.Join(append(theme.Available(), theme.Auto, "<file>.toml"), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := p.value(label, current)
		if theme.IsAvailable(value) {
			if !strings.HasSuffix(strings.ToLower(value), ".toml") {
				value = strings.ToLower(value)
			}
			return value
		}
		fmt.Fprintf(p.out, "  Invalid theme %q. Available: %s\n", value, options)
		if p.exhausted() {
			return current
		}
	}
}

// exhausted reports whether the input has no more answers, so a bad
// current value cannot loop forever.
func (p prompter) exhausted() bool {
	_, err := p.reader.Peek(1)
	return err != nil
}

func viewModeNames() []string {
	names := make([]string, len(dateutil.ViewModes))
	for i, m := range dateutil.ViewModes {
		names[i] = string(m)
	}
	return names
}
