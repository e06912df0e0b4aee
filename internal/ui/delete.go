package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/schedule"
)

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <event-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an event",
		Long: `Delete an event by its ID. Locked events cannot be deleted.

Example:
  eventide delete 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			e, err := a.repo.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("fetching event #%d: %w", id, err)
			}
			if e.Locked {
				return &schedule.LockedError{Op: "delete"}
			}
			if err := a.repo.Delete(ctx, id); err != nil {
				return fmt.Errorf("deleting event #%d: %w", id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d: %s\n", formatOK("Deleted event"), id, e.Title)
			return nil
		},
	}
}
