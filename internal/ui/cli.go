// Package ui implements the eventide command line.
package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/config"
	"github.com/javiermolinar/eventide/internal/db"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/llm"
	"github.com/javiermolinar/eventide/internal/logging"
	"github.com/javiermolinar/eventide/internal/restclient"
	"github.com/javiermolinar/eventide/internal/schedule"
	"github.com/javiermolinar/eventide/internal/tui"
	"github.com/javiermolinar/eventide/internal/tui/commands"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   event.Repository
	config *config.Config
	root   *cobra.Command
	log    *logging.Logger
	remote *restclient.Client // set when storage.backend is remote
	client llm.Client         // created on first use
	debug  bool               // Enable debug logging
}

// NewApp creates a new CLI application. A nil repo is opened lazily from
// the storage section of cfg.
func NewApp(repo event.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg}

	a.root = &cobra.Command{
		Use:   "eventide",
		Short: "A calendar grid for the terminal",
		Long: `Eventide lays out your events on a time grid.

Overlapping events share the column side by side, multi-day events are
drawn as bands on top, and blocks can be moved and resized with the mouse.
Running eventide without a command opens the interactive grid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (TUI logs to a temp file)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.monthCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.lockCmd())
	a.root.AddCommand(a.optimizeCmd())
	a.root.AddCommand(a.summarizeCmd())
	a.root.AddCommand(a.generateCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.remindCmd())
	a.root.AddCommand(a.clearCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "eventide %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository and flushes the logger.
func (a *App) Close() error {
	var errs []error
	if a.repo != nil {
		errs = append(errs, a.repo.Close())
	}
	if a.log != nil {
		_ = a.log.Close()
	}
	return errors.Join(errs...)
}

// ensureRepo opens the configured store on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	switch a.config.Storage.Backend {
	case config.BackendRemote:
		c, err := restclient.New(a.config.Storage.RemoteURL)
		if err != nil {
			return fmt.Errorf("connecting to %s: %w", a.config.Storage.RemoteURL, err)
		}
		a.repo = c
		a.remote = c
	default:
		if err := os.MkdirAll(filepath.Dir(a.config.Storage.DBPath), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		repo, err := db.New(a.config.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		a.repo = repo
	}
	return nil
}

// logger returns the command logger. It writes to the configured file or
// stderr, never to stdout.
func (a *App) logger() *logging.Logger {
	if a.log != nil {
		return a.log
	}
	cfg := a.config.Log
	if a.debug {
		cfg.Level = "debug"
	}
	l, err := logging.New(cfg)
	if err != nil {
		l = logging.Nop()
	}
	a.log = l
	return l
}

// tuiLogger returns a logger that does not touch the terminal: the
// configured log file, a temp file with --debug, or nothing.
func (a *App) tuiLogger() *logging.Logger {
	cfg := a.config.Log
	switch {
	case cfg.File != "":
	case a.debug:
		cfg.File = filepath.Join(os.TempDir(), "eventide-debug.log")
		cfg.Level = "debug"
	default:
		a.log = logging.Nop()
		return a.log
	}
	l, err := logging.New(cfg)
	if err != nil {
		l = logging.Nop()
	}
	a.log = l
	return l
}

// llmClient returns the configured LLM client.
func (a *App) llmClient() (llm.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	c, err := llm.NewClient(a.config.LLM)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	a.client = c
	return c, nil
}

// optimizer returns the schedule optimizer. Over a remote store the
// server optimizes.
func (a *App) optimizer() (schedule.Optimizer, error) {
	if a.remote != nil {
		return a.remote, nil
	}
	c, err := a.llmClient()
	if err != nil {
		return nil, err
	}
	return llm.NewOptimizer(c, a.logger().WithComponent("optimizer")), nil
}

// summarizer returns the schedule summarizer. Over a remote store the
// server summarizes.
func (a *App) summarizer() (commands.Summarizer, error) {
	if a.remote != nil {
		return a.remote, nil
	}
	c, err := a.llmClient()
	if err != nil {
		return nil, err
	}
	return llm.NewSummarizer(c), nil
}

func (a *App) runTUI() error {
	if err := a.ensureRepo(); err != nil {
		return err
	}
	log := a.tuiLogger()
	opts := []tui.ModelOption{tui.WithLogger(log)}

	// The grid works without a model; optimize and summarize then report
	// that nothing is configured.
	if opt, err := a.optimizer(); err == nil {
		opts = append(opts, tui.WithOptimizer(opt))
	} else {
		log.Warnw("Optimizer unavailable", "error", err)
	}
	if sum, err := a.summarizer(); err == nil {
		opts = append(opts, tui.WithSummarizer(sum))
	} else {
		log.Warnw("Summarizer unavailable", "error", err)
	}
	return tui.Run(a.repo, a.config, opts...)
}
