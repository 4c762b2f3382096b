package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quayside/nasgate/client"
	"github.com/quayside/nasgate/internal/cliutil"
)

// apis: authenticate and list every endpoint the server advertises.
func apisCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "apis",
		Short: "List the APIs the server advertises",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, c *client.Client) error {
				all := c.Registry().All()
				if asJSON {
					return cliutil.WriteJSON(cmd.OutOrStdout(), all, true)
				}

				names := make([]string, 0, len(all))
				for name := range all {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					ep := all[name]
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tv%d-%d\n", name, ep.Path, ep.MinVersion, ep.MaxVersion)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the list as JSON")
	return cmd
}
