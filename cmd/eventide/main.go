package main

import (
	"fmt"
	"os"

	"github.com/javiermolinar/eventide/internal/config"
	"github.com/javiermolinar/eventide/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	for _, w := range cfg.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	app := ui.NewApp(nil, cfg)
	defer func() { _ = app.Close() }()
	return app.Execute()
}
