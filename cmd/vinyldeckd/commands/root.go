package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vinyldeck/vinyldeck/internal/config"
)

var (
	verbose bool

	globalConfig *config.Config
	configLoadErr error
)

var rootCmd = &cobra.Command{
	Use:   "vinyldeckd",
	Short: "Digital-vinyl deck engine and reference CLI",
	Long: `vinyldeckd runs the digital-vinyl core: a block-structured PCM
buffer fed by an external decoder subprocess per deck, with PPM and
overview meters and a position/velocity filter for timecode-driven
playback.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/vinyldeck/config.yaml
  Linux:   ~/.config/vinyldeck/config.yaml
  Windows: %AppData%/vinyldeck/config.yaml

Examples:
  vinyldeckd config show
  vinyldeckd import left /music/track.flac
  vinyldeckd status left
  vinyldeckd serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() {
	cfg, err := config.Load()
	if err != nil {
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

// GetConfig returns the global configuration. If loading it at process
// start failed, that error is returned; if it was never loaded, it is
// loaded now.
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
