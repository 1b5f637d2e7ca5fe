package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vinyldeck/vinyldeck/internal/rig"
	"github.com/vinyldeck/vinyldeck/pkg/deck"
	"github.com/vinyldeck/vinyldeck/pkg/render"
)

const statusPollInterval = 200 * time.Millisecond

var importCmd = &cobra.Command{
	Use:   "import <deck> <source>",
	Short: "Decode source through a deck's importer and report progress until done",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		deckName, source := args[0], args[1]

		dc, ok := cfg.Decks[deckName]
		if !ok {
			return fmt.Errorf("unknown deck %q (see 'vinyldeckd config show')", deckName)
		}

		tr := deck.NewTrack(dc.ImporterPath)
		r, err := rig.New()
		if err != nil {
			return fmt.Errorf("start event loop: %w", err)
		}
		defer r.Close()
		r.Add(deckName, tr)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		runErr := make(chan error, 1)
		go func() { runErr <- r.Run(ctx) }()

		if err := tr.Import(source); err != nil {
			return fmt.Errorf("import %s: %w", source, err)
		}

		for tr.State() != deck.StateIdle {
			time.Sleep(statusPollInterval)
			printDeckStatus(deckName, tr)
		}
		printDeckStatus(deckName, tr)

		cancel()
		r.Wake()
		<-runErr
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [deck]",
	Short: "Show import state and a meter bar for one or all configured decks",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}

		names := args
		if len(names) == 0 {
			for name := range cfg.Decks {
				names = append(names, name)
			}
			sort.Strings(names)
		}

		for _, name := range names {
			dc, ok := cfg.Decks[name]
			if !ok {
				return fmt.Errorf("unknown deck %q", name)
			}
			// status reports the deck's resting state: vinyldeckd has no
			// background daemon holding decks open between commands, so
			// a deck observed outside of a running "serve" or "import"
			// is always idle. See config.DeckConfig and 'serve' for the
			// long-lived case.
			tr := deck.NewTrack(dc.ImporterPath)
			printDeckStatus(name, tr)
		}
		return nil
	},
}

func printDeckStatus(name string, tr *deck.Track) {
	committed := tr.SamplesCommitted()
	var bar string
	if i := committed/deck.TrackPPMRes - 1; i >= 0 {
		bar = render.MeterBar(tr.PPMAt(i), 30)
	} else {
		bar = render.MeterBar(0, 30)
	}
	fmt.Printf("%-12s %-10s %10d samples  %s\n", name, tr.State(), committed, bar)
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statusCmd)
}
