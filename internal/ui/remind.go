package ui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/reminder"
)

func (a *App) remindCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Print reminders as they come due",
		Long: `Watch the store and print every reminder that starts within
reminder.lead_minutes, each at most once. Checks run on the
reminder.schedule cron spec until interrupted.`,
		Example: `  eventide remind
  eventide remind --once`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			notify := func(n reminder.Notification) {
				fmt.Fprintf(out, "%s %s %s\n",
					formatMuted(time.Now().Format("15:04")),
					formatAlert("»"),
					formatUrgency(n.Event.Urgency, n.String()))
			}
			svc, err := reminder.New(a.repo, a.config.Reminder, notify, a.logger().WithComponent("reminder"))
			if err != nil {
				return err
			}

			if once {
				due, err := svc.Check(context.Background())
				if err != nil {
					return err
				}
				if len(due) == 0 {
					fmt.Fprintln(out, "No reminders due.")
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(out, "Watching reminders (%s, %d min ahead). Press Ctrl+C to stop.\n",
				a.config.Reminder.Schedule, a.config.Reminder.LeadMinutes)
			return svc.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Check once and exit")
	return cmd
}
