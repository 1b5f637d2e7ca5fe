// Command vinyldeckd runs the digital-vinyl deck engine: import tracks
// through per-deck decoder subprocesses, inspect their meters, and
// serve a read-only websocket monitor feed.
package main

import (
	"fmt"
	"os"

	"github.com/vinyldeck/vinyldeck/cmd/vinyldeckd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
