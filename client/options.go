package client

import (
	"fmt"
	"net/http"

	"github.com/quayside/nasgate/observability"
)

// Generation selects the login protocol the server speaks.
type Generation int

const (
	// GenerationLegacy logs in without a pre-login handshake.
	GenerationLegacy Generation = iota + 1
	// GenerationCurrent requires the Noise IK handshake token at login.
	GenerationCurrent
)

// authVersion is the auth endpoint version spoken by each generation.
func authVersion(g Generation) int {
	if g == GenerationLegacy {
		return 3
	}
	return 7
}

// Config are the immutable session parameters. They are fixed at New and never
// mutated for the lifetime of the client.
type Config struct {
	// BaseURL is the server address, e.g. "https://nas.example.com:5001/".
	BaseURL string
	// Account and Password are the login credentials.
	Account  string
	Password string
	// Generation selects legacy or current login protocol. Zero means current.
	Generation Generation
	// OTPCode is an optional one-time code for accounts with 2FA.
	OTPCode string
	// DeviceID and DeviceName identify a trusted device. When only DeviceName
	// is set, a random DeviceID is generated at construction.
	DeviceID   string
	DeviceName string
}

// Option configures optional client behavior. Omit an option to use the
// library default.
type Option func(*options) error

type options struct {
	hc        *http.Client
	obs       observability.SessionObserver
	secure    bool
	secureSet bool
}

func applyOptions(opts []Option) (options, error) {
	cfg := options{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return options{}, err
		}
	}
	return cfg, nil
}

// WithHTTPClient sets a custom HTTP client (proxy/TLS/timeouts).
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *options) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		cfg.hc = hc
		return nil
	}
}

// WithObserver installs a session event observer.
func WithObserver(obs observability.SessionObserver) Option {
	return func(cfg *options) error {
		cfg.obs = obs
		return nil
	}
}

// WithSecureTransport overrides transport-security detection. By default the
// transport counts as secure when the base URL scheme is https; credential
// encryption is applied only on insecure transports.
func WithSecureTransport(secure bool) Option {
	return func(cfg *options) error {
		cfg.secure = secure
		cfg.secureSet = true
		return nil
	}
}
