package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) lockCmd() *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "lock <event-id>",
		Short: "Lock or unlock an event",
		Long: `Lock an event so it can no longer be moved, resized, edited or deleted,
in the grid or from the command line. The grid can lock events but not
unlock them; use --off here to unlock.`,
		Example: `  eventide lock 42
  eventide lock 42 --off`,
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

			state, already := "Locked", "locked"
			if off {
				state, already = "Unlocked", "unlocked"
			}
			if e.Locked == !off {
				fmt.Fprintf(cmd.OutOrStdout(), "Event #%d is already %s\n", id, already)
				return nil
			}

			e.Locked = !off
			if err := a.repo.Update(ctx, e); err != nil {
				return fmt.Errorf("updating event #%d: %w", id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s event #%d: %s\n", formatOK(state), id, e.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Unlock the event")
	return cmd
}
