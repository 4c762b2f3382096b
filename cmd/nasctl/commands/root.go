package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quayside/nasgate/client"
	"github.com/quayside/nasgate/internal/cliutil"
	"github.com/quayside/nasgate/internal/defaults"
	"github.com/quayside/nasgate/internal/logging"
)

var (
	baseURL          string
	account          string
	password         string
	otpCode          string
	generationName   string
	deviceID         string
	deviceName       string
	timeout          time.Duration
	trustedTransport bool
	verbose          bool
)

// Execute runs the nasctl command tree.
func Execute() error {
	root, err := newRoot()
	if err != nil {
		return err
	}
	return root.Execute()
}

func newRoot() (*cobra.Command, error) {
	root := &cobra.Command{
		Use:           "nasctl",
		Short:         "Command-line client for the NAS management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				return logging.Enable(os.Stderr, "DEBUG")
			}
			return nil
		},
	}

	envTimeout, err := cliutil.EnvDuration("NASGATE_TIMEOUT", defaults.HTTPTimeout)
	if err != nil {
		return nil, &cliutil.UsageError{Msg: err.Error()}
	}

	pf := root.PersistentFlags()
	pf.StringVar(&baseURL, "url", cliutil.EnvString("NASGATE_URL", ""), "base URL of the NAS, e.g. https://nas.local:5001/ (env: NASGATE_URL)")
	pf.StringVar(&account, "account", cliutil.EnvString("NASGATE_ACCOUNT", ""), "account name (env: NASGATE_ACCOUNT)")
	pf.StringVar(&password, "password", cliutil.EnvString("NASGATE_PASSWORD", ""), "account password (env: NASGATE_PASSWORD)")
	pf.StringVar(&otpCode, "otp", "", "one-time password for accounts with 2FA")
	pf.StringVar(&generationName, "generation", "current", "server generation: current or legacy")
	pf.StringVar(&deviceID, "device-id", cliutil.EnvString("NASGATE_DEVICE_ID", ""), "device id from a previous 2FA enrollment (env: NASGATE_DEVICE_ID)")
	pf.StringVar(&deviceName, "device-name", "", "device name to enroll for 2FA skipping")
	pf.DurationVar(&timeout, "timeout", envTimeout, "HTTP timeout (env: NASGATE_TIMEOUT)")
	pf.BoolVar(&trustedTransport, "trusted-transport", false, "treat a plain http link as already secured (e.g. behind a local reverse proxy)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(loginCmd(), callCmd(), apisCmd(), versionCmd())
	return root, nil
}

func newClient() (*client.Client, error) {
	gen, err := parseGeneration(generationName)
	if err != nil {
		return nil, err
	}
	cfg := client.Config{
		BaseURL:    baseURL,
		Account:    account,
		Password:   password,
		Generation: gen,
		OTPCode:    otpCode,
		DeviceID:   deviceID,
		DeviceName: deviceName,
	}
	opts := []client.Option{
		client.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if trustedTransport {
		opts = append(opts, client.WithSecureTransport(true))
	}
	c, err := client.New(cfg, opts...)
	if err != nil {
		return nil, &cliutil.UsageError{Msg: err.Error()}
	}
	return c, nil
}

func parseGeneration(s string) (client.Generation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "current", "2":
		return client.GenerationCurrent, nil
	case "legacy", "1":
		return client.GenerationLegacy, nil
	default:
		return 0, &cliutil.UsageError{Msg: fmt.Sprintf("invalid --generation %q (want current or legacy)", s)}
	}
}

// withSession connects, runs fn, and always logs out afterwards.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client) error) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = c.Disconnect(ctx) }()
	return fn(ctx, c)
}

// parseParams turns repeated key=value flags into a request parameter map.
func parseParams(pairs []string) (map[string]any, error) {
	m := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, &cliutil.UsageError{Msg: fmt.Sprintf("invalid --param %q (want key=value)", p)}
		}
		m[k] = v
	}
	return m, nil
}
