package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vinyldeck/vinyldeck/internal/rig"
	"github.com/vinyldeck/vinyldeck/pkg/deck"
	"github.com/vinyldeck/vinyldeck/pkg/monitor"
	"github.com/vinyldeck/vinyldeck/pkg/pitch"
)

const monitorTickRate = 50 * time.Millisecond

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference event loop and monitor websocket server in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}

		r, err := rig.New()
		if err != nil {
			return fmt.Errorf("start event loop: %w", err)
		}
		defer r.Close()

		mon := monitor.NewServer(monitorTickRate)

		for name, dc := range cfg.Decks {
			tr := deck.NewTrack(dc.ImporterPath)
			pf := pitch.New(1.0 / float64(deck.TrackRate))
			r.Add(name, tr)
			mon.Register(name, tr, pf)
			slog.Info("serve: deck ready", "deck", name, "importer", dc.ImporterPath)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		rigErr := make(chan error, 1)
		go func() { rigErr <- r.Run(ctx) }()

		monErr := make(chan error, 1)
		go func() { monErr <- mon.ListenAndServe(cfg.MonitorAddr) }()

		slog.Info("serve: monitor listening", "addr", cfg.MonitorAddr)

		select {
		case <-ctx.Done():
		case err := <-rigErr:
			if err != nil {
				slog.Error("serve: event loop stopped", "err", err)
			}
		case err := <-monErr:
			if err != nil {
				slog.Error("serve: monitor stopped", "err", err)
			}
		}

		cancel()
		r.Wake()
		mon.Close()
		<-rigErr
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
