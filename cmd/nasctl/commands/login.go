package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/quayside/nasgate/client"
	"github.com/quayside/nasgate/internal/cliutil"
)

// login: authenticate once and print the session identifiers, then log out.
func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Verify credentials and print the session identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, c *client.Client) error {
				return cliutil.WriteJSON(cmd.OutOrStdout(), map[string]any{
					"sid":       c.SessionID(),
					"synotoken": c.CSRFToken(),
					"apis":      c.Registry().Len(),
				}, true)
			})
		},
	}
}
