// Package temporalclient builds Temporal client options from the SDK's
// envconfig (TEMPORAL_ADDRESS, TEMPORAL_NAMESPACE, TLS settings or a
// config.toml profile) plus command-line overrides.
package temporalclient

import (
	"fmt"

	"github.com/rs/zerolog"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/contrib/envconfig"
)

// LoadClientOptions loads client options from the environment. Non-empty
// overrides replace the host:port and namespace. The client logs through
// logger.
func LoadClientOptions(hostPortOverride, namespaceOverride string, logger zerolog.Logger) (client.Options, error) {
	opts, err := envconfig.LoadClientOptions(envconfig.LoadClientOptionsRequest{})
	if err != nil {
		return client.Options{}, fmt.Errorf("failed to load Temporal client options: %w", err)
	}
	if hostPortOverride != "" {
		opts.HostPort = hostPortOverride
	}
	if namespaceOverride != "" {
		opts.Namespace = namespaceOverride
	}
	opts.Logger = NewLogger(logger.With().Str("component", "temporal").Logger())
	return opts, nil
}

// Dial loads options and connects.
func Dial(hostPortOverride, namespaceOverride string, logger zerolog.Logger) (client.Client, error) {
	opts, err := LoadClientOptions(hostPortOverride, namespaceOverride, logger)
	if err != nil {
		return nil, err
	}
	c, err := client.Dial(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Temporal at %s: %w", opts.HostPort, err)
	}
	return c, nil
}
