package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/event"
)

// bulkDeleter is implemented by stores that can drop every event at once.
type bulkDeleter interface {
	DeleteAll(ctx context.Context) (int64, error)
}

func (a *App) clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every event",
		Long: `Delete every event in the store. A local database drops locked
events too; a remote server refuses them and they are kept. This cannot
be undone; export first if you may need the events again.`,
		Example: `  eventide clear
  eventide clear --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !yes {
				fmt.Fprint(out, "Delete every event? [y/N]: ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.TrimSpace(strings.ToLower(answer)) {
				case "y", "yes":
				default:
					fmt.Fprintln(out, "Nothing deleted.")
					return nil
				}
			}

			ctx := context.Background()
			var count, kept int64
			if bd, ok := a.repo.(bulkDeleter); ok {
				n, err := bd.DeleteAll(ctx)
				if err != nil {
					return fmt.Errorf("clearing events: %w", err)
				}
				count = n
			} else {
				events, err := a.repo.ListAll(ctx)
				if err != nil {
					return fmt.Errorf("listing events: %w", err)
				}
				for _, e := range events {
					err := a.repo.Delete(ctx, e.ID)
					if errors.Is(err, event.ErrLocked) {
						kept++
						continue
					}
					if err != nil {
						return fmt.Errorf("deleting event #%d: %w", e.ID, err)
					}
					count++
				}
			}

			fmt.Fprintf(out, "%s %d events\n", formatOK("Deleted"), count)
			if kept > 0 {
				fmt.Fprintf(out, "Kept %d locked events\n", kept)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
