// Command actionsim simulates a melee actor's action economy over many
// seeded trials.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/actionsim/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
