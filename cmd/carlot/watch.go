package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/WessleyAI/carlot/engine/car"
	"github.com/WessleyAI/carlot/pkg/natsutil"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

func watchCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Log car events published by a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cfg.NATS.URL == "" {
				return errors.New("watch: nats.url (or NATS_URL) is required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			nc, err := nats.Connect(cfg.NATS.URL, nats.Name("carlot-watch"))
			if err != nil {
				return fmt.Errorf("nats connect: %w", err)
			}
			defer nc.Close()

			subject := cfg.NATS.Subject + ".>"
			sub, err := natsutil.Subscribe(nc, subject, func(_ context.Context, ev car.Event) {
				logger.Info("car event", "kind", ev.Kind, "car", ev.Description, "gas_left", ev.GasLeft, "at", ev.At)
			})
			if err != nil {
				return fmt.Errorf("subscribe %s: %w", subject, err)
			}
			defer sub.Unsubscribe()

			logger.Info("watching car events", "subject", subject)
			<-ctx.Done()
			return nil
		},
	}
}
