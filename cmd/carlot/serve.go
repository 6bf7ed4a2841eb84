package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WessleyAI/carlot/engine/car"
	"github.com/WessleyAI/carlot/engine/graph"
	"github.com/WessleyAI/carlot/engine/lot"
	"github.com/WessleyAI/carlot/pkg/config"
	"github.com/WessleyAI/carlot/pkg/metrics"
	"github.com/WessleyAI/carlot/pkg/resilience"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/cobra"
)

func serveCmd(configPath *string) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lot over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath, os.Stdout)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "Load the sample cars at startup")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, seed bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	met := metrics.New("carlot")
	observers := []car.Observer{met}

	// --- NATS event publishing ---
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("carlot"))
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Drain()
		observers = append(observers, lot.NewPublisher(nc, cfg.NATS.Subject, logger))
		logger.Info("publishing car events", "url", cfg.NATS.URL, "subject", cfg.NATS.Subject)
	}

	// --- Neo4j snapshot store ---
	lotOpts := []lot.Option{lot.WithLogger(logger)}
	var counter makeCounter
	if cfg.Neo4j.URL != "" {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4j.URL, neo4j.BasicAuth(cfg.Neo4j.User, cfg.Neo4j.Pass, ""))
		if err != nil {
			return fmt.Errorf("neo4j driver: %w", err)
		}
		defer driver.Close(context.Background())
		if err := driver.VerifyConnectivity(ctx); err != nil {
			return fmt.Errorf("neo4j verify: %w", err)
		}
		breaker := resilience.NewBreaker(resilience.BreakerOpts{
			OnStateChange: func(from, to resilience.State) {
				logger.Warn("neo4j breaker state changed", "from", from, "to", to)
			},
		})
		store := graph.New(driver, graph.WithBreaker(breaker))
		lotOpts = append(lotOpts, lot.WithStore(store))
		counter = store
		logger.Info("connected to Neo4j", "url", cfg.Neo4j.URL)
	}

	srv := newServer(lot.New(lotOpts...), met, car.Observers(observers...), logger)
	srv.counter = counter
	if seed {
		if err := srv.seed(ctx); err != nil {
			return fmt.Errorf("seed lot: %w", err)
		}
		logger.Info("lot seeded", "cars", srv.lot.Len())
	}

	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      srv.routes(cfg.HTTP),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("carlot api starting", "port", cfg.HTTP.Port)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}
