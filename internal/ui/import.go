package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/config"
	"github.com/javiermolinar/eventide/internal/db"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/ics"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.ics|database_path>",
		Short: "Import events from an iCalendar file or another database",
		Long: `Import events into the current store.

An .ics file is read as iCalendar, one event per VEVENT. Any other path is
opened as an eventide database and all of its events are copied. Imported
events always get new IDs.`,
		Example: `  eventide import ~/Downloads/team.ics
  eventide import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source path is a directory: %s", sourcePath)
			}

			ctx := context.Background()
			var count int
			if strings.EqualFold(filepath.Ext(sourcePath), ".ics") {
				count, err = importCalendar(ctx, a.repo, sourcePath, a.logger().WithComponent("ics"))
			} else {
				if a.config.Storage.Backend != config.BackendRemote {
					destPath, err := resolvePath(a.config.Storage.DBPath)
					if err != nil {
						return err
					}
					if sourcePath == destPath {
						return fmt.Errorf("source database matches current database")
					}
				}
				count, err = importEvents(ctx, a.repo, sourcePath)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d events from %s\n", formatOK("Imported"), count, sourcePath)
			return nil
		},
	}

	return cmd
}

func importCalendar(ctx context.Context, dest event.Repository, path string, log event.Logger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening calendar: %w", err)
	}
	defer func() { _ = f.Close() }()

	events, err := ics.Import(ctx, dest, f, log)
	return len(events), err
}

func importEvents(ctx context.Context, dest event.Repository, sourcePath string) (int, error) {
	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = sourceRepo.Close() }()

	events, err := sourceRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing source events: %w", err)
	}

	imported := 0
	for _, e := range events {
		e.ID = 0
		if err := dest.Create(ctx, e); err != nil {
			return imported, fmt.Errorf("importing event %q: %w", e.Title, err)
		}
		imported++
	}

	return imported, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
