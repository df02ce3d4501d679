// Command moodflicks browses movies by mood and tracks the viewer's points,
// badges and level.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/moodflicks/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
