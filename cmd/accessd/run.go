package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjeanlab/gatehouse/internal/bus"
	"github.com/alfredjeanlab/gatehouse/internal/config"
	"github.com/alfredjeanlab/gatehouse/internal/decision"
	"github.com/alfredjeanlab/gatehouse/internal/upstream"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the decision service",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		if embeddedNATS {
			srv, err := natsserver.NewServer(&natsserver.Options{Host: "127.0.0.1", Port: 4222})
			if err != nil {
				return fmt.Errorf("starting embedded NATS: %w", err)
			}
			srv.Start()
			defer srv.Shutdown()
			if !srv.ReadyForConnections(5 * time.Second) {
				return fmt.Errorf("embedded NATS not ready")
			}
			if os.Getenv("GATEHOUSE_NATS_URL") == "" {
				os.Setenv("GATEHOUSE_NATS_URL", srv.ClientURL())
			}
			logger.Info("embedded NATS listening", "url", srv.ClientURL())
		}

		cfg, err := config.LoadService()
		if err != nil {
			return err
		}

		b, err := bus.ConnectNATS(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer b.Close()
		logger.Info("connected to broker", "nats_url", cfg.NATSURL)

		svc := decision.NewService(decision.Options{
			Bus:             b,
			Upstream:        upstream.New(cfg.APIURL, cfg.UpstreamTimeout),
			RequestTopic:    cfg.RequestTopic,
			ResponseTopic:   cfg.ResponseTopic,
			UpstreamTimeout: cfg.UpstreamTimeout,
			Logger:          logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return svc.Run(ctx)
	},
}
