// Command mongoexpr compiles expressions into MongoDB filter and update
// documents.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/mongoexpr/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// ExitErrors were already reported in the requested format.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
