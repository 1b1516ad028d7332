package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alfredjeanlab/gatehouse/internal/bus"
	"github.com/alfredjeanlab/gatehouse/internal/config"
	"github.com/alfredjeanlab/gatehouse/internal/device"
	"github.com/alfredjeanlab/gatehouse/internal/gate"
	"github.com/alfredjeanlab/gatehouse/internal/ui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the gate state machine with console peripherals",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		if noColor {
			ui.ForceNoColor()
		}

		cfg, err := config.LoadGate()
		if err != nil {
			return err
		}

		profile := gate.DefaultProfile()
		if profilePath != "" {
			profile, err = gate.LoadProfile(profilePath)
			if err != nil {
				return err
			}
			logger.Info("device profile loaded", "path", profilePath)
		}

		b, err := bus.ConnectNATS(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer b.Close()
		logger.Info("connected to broker", "nats_url", cfg.NATSURL)

		// One console owns stdin and stands in for every peripheral.
		console := device.NewConsole(os.Stdin, os.Stdout)

		m := gate.NewMachine(gate.Options{
			GateID:        cfg.GateID,
			Bus:           b,
			RequestTopic:  cfg.RequestTopic,
			ResponseTopic: cfg.ResponseTopic,
			Profile:       profile,
			Devices: gate.Devices{
				Display:   console,
				Indicator: console,
				Buzzer:    console,
				Reader:    console,
				Selector:  console,
			},
			Logger: logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return m.Run(ctx)
	},
}
