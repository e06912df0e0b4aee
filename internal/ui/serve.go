package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/api"
	"github.com/javiermolinar/eventide/internal/config"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST server",
		Long: `Serve the event store over HTTP.

Routes:
  GET    /schedule?date=YYYY-MM-DD
  GET    /schedule/range?start=&end=
  POST   /create_schedule
  PATCH  /update_schedule/:id
  DELETE /delete_schedule/:id
  POST   /optimize_schedule
  POST   /summarize_calendar
  GET    /layout?date=&mode=&until=
  GET    /healthz
  GET    /metrics

Other eventide instances reach it with storage.backend = "remote".`,
		Example: `  eventide serve
  eventide serve --addr=127.0.0.1:8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.config.Storage.Backend == config.BackendRemote {
				return errors.New("serve needs a local store, set storage.backend to sqlite")
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			log := a.logger()

			cfg := a.config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			lc, err := a.config.Layout()
			if err != nil {
				return err
			}

			deps := api.Deps{Repo: a.repo, Layout: lc}
			if opt, err := a.optimizer(); err == nil {
				deps.Optimizer = opt
			} else {
				log.Warnw("Optimizer disabled", "error", err)
			}
			if sum, err := a.summarizer(); err == nil {
				deps.Summarizer = sum
			} else {
				log.Warnw("Summarizer disabled", "error", err)
			}

			srv, err := api.New(cfg, deps, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving events on %s\n", cfg.Addr)

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			if err := srv.Shutdown(context.Background()); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")
	return cmd
}
