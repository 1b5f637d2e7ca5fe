package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/vinyldeck/vinyldeck/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(build.String())
		if IsVerbose() {
			fmt.Printf("  go: %s\n", runtime.Version())
			if path, err := GetConfig(); err == nil {
				fmt.Printf("  monitor_addr: %s\n", path.MonitorAddr)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
