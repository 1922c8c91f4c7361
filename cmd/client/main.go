// Client executable: an interactive agent that answers queries with the
// tools of an MCP server.
//
//	client <server-script>                         interactive session
//	client research <server-script> <query> <q>    search then ask about the results
//	client models                                  list usable models
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vinzlac/mcp-server-brave-test/internal/config"
	"github.com/vinzlac/mcp-server-brave-test/internal/logging"
	"github.com/vinzlac/mcp-server-brave-test/internal/version"
)

type rootFlags struct {
	envFile      string
	durable      bool
	temporalHost string
	namespace    string
	metricsAddr  string
	session      string
	noMarkdown   bool
	logLevel     string
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "client <server-script>",
	Short: "Interactive MCP tool-calling agent",
	Long: `Starts an interactive session. Queries are answered by the completion
endpoint, which may call the tools of the MCP server started from
<server-script> (.py, .js, .go, an executable, or an http(s) URL).

With --durable each query runs as a Temporal workflow on a worker
(see cmd/worker), which owns the tool server; <server-script> is then
optional.`,
	Version:       version.String(),
	Args:          cobra.RangeArgs(0, 1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, "dotenv file with API keys")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	f := rootCmd.Flags()
	f.BoolVar(&flags.durable, "durable", false, "run queries as Temporal workflows")
	f.StringVar(&flags.temporalHost, "temporal-host", "", "Temporal frontend host:port (default from TEMPORAL_ADDRESS)")
	f.StringVar(&flags.namespace, "namespace", "", "Temporal namespace (default from TEMPORAL_NAMESPACE)")
	f.StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	f.StringVar(&flags.session, "session", "", "resume a persisted session (requires REDIS_ADDR)")
	f.BoolVar(&flags.noMarkdown, "no-markdown", false, "print answers as plain text")

	rootCmd.AddCommand(researchCmd, modelsCmd)
}

// setup loads the configuration and installs the logger.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	level := cfg.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	return cfg, logging.Setup(level), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
