package commands

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/quayside/nasgate/client"
	"github.com/quayside/nasgate/internal/cliutil"
)

// call <api> <method>: authenticate, dispatch one API request, and print the
// response envelope.
func callCmd() *cobra.Command {
	var (
		apiVersion   int
		pathOverride string
		paramFlags   []string
		post         bool
		pretty       bool
		outFile      string
		overwrite    bool
	)

	cmd := &cobra.Command{
		Use:   "call <api> <method>",
		Short: "Call one API method and print the response",
		Example: "  nasctl call SYNO.FileStation.List list --param folder_path=/volume1\n" +
			"  nasctl call SYNO.Core.System info --version 3 --pretty",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, method := args[0], args[1]

			reqParams, err := parseParams(paramFlags)
			if err != nil {
				return err
			}
			reqParams["method"] = method

			return withSession(cmd, func(ctx context.Context, c *client.Client) error {
				path := pathOverride
				version := apiVersion
				if path == "" {
					ep, v, err := c.Registry().ResolveVersion(api, apiVersion)
					if err != nil {
						return err
					}
					path, version = ep.Path, v
				}
				if version == 0 {
					version = 1
				}
				reqParams["version"] = version

				var opts []client.RequestOption
				if post {
					opts = append(opts, client.WithPOST())
				}
				env, reqErr := c.Request(ctx, api, path, reqParams, opts...)
				if env == nil {
					return reqErr
				}
				if err := writeEnvelope(cmd, env, pretty, outFile, overwrite); err != nil {
					return err
				}
				return reqErr
			})
		},
	}

	cmd.Flags().IntVar(&apiVersion, "version", 0, "API version (default: highest the server supports)")
	cmd.Flags().StringVar(&pathOverride, "path", "", "endpoint path, skipping registry lookup (e.g. entry.cgi)")
	cmd.Flags().StringArrayVar(&paramFlags, "param", nil, "request parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&post, "post", false, "send the request as a POST form")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print JSON output")
	cmd.Flags().StringVar(&outFile, "out", "", "write the response to a file instead of stdout")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite an existing --out file")
	return cmd
}

func writeEnvelope(cmd *cobra.Command, env *client.Envelope, pretty bool, outFile string, overwrite bool) error {
	if outFile == "" {
		return cliutil.WriteJSON(cmd.OutOrStdout(), env, pretty)
	}
	if err := cliutil.RefuseOverwrite(outFile, overwrite); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(env, "", "  ")
	} else {
		data, err = json.Marshal(env)
	}
	if err != nil {
		return err
	}
	return cliutil.WriteFileAtomic(outFile, append(data, '\n'), 0o600)
}
