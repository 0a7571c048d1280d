// Command swiss tracks a Swiss-system tournament from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/swiss/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "swiss:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
