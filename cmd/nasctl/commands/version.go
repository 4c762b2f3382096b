package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quayside/nasgate/internal/version"
)

// Injected at build time via -ldflags.
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the nasctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "nasctl", version.String(buildVersion, buildCommit))
			return err
		},
	}
}
