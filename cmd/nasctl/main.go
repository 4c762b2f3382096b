package main

import (
	"fmt"
	"os"

	"github.com/quayside/nasgate/cmd/nasctl/commands"
	"github.com/quayside/nasgate/internal/cliutil"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nasctl:", err)
		if cliutil.IsUsage(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
