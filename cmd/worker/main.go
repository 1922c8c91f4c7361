// Worker executable: hosts the query workflow and its activities.
//
// The worker owns the tool server connection (started from the script
// argument) and the completion client; clients started with --durable only
// send queries.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/worker"

	"github.com/vinzlac/mcp-server-brave-test/internal/activities"
	"github.com/vinzlac/mcp-server-brave-test/internal/bootstrap"
	"github.com/vinzlac/mcp-server-brave-test/internal/config"
	"github.com/vinzlac/mcp-server-brave-test/internal/logging"
	"github.com/vinzlac/mcp-server-brave-test/internal/metrics"
	"github.com/vinzlac/mcp-server-brave-test/internal/temporalclient"
	"github.com/vinzlac/mcp-server-brave-test/internal/version"
	"github.com/vinzlac/mcp-server-brave-test/internal/workflow"
)

var (
	envFile      string
	temporalHost string
	namespace    string
	metricsAddr  string
)

var rootCmd = &cobra.Command{
	Use:           "worker <server-script>",
	Short:         "Run the Temporal worker for durable queries",
	Version:       version.String(),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file with API keys")
	f.StringVar(&temporalHost, "temporal-host", "", "Temporal frontend host:port (default from TEMPORAL_ADDRESS)")
	f.StringVar(&namespace, "namespace", "", "Temporal namespace (default from TEMPORAL_NAMESPACE)")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9091")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel)
	if err := cfg.Require(config.CredentialCompletion); err != nil {
		return err
	}

	var m *metrics.Metrics
	if metricsAddr != "" {
		m = metrics.New()
		addr, err := m.Serve(ctx, metricsAddr, logger)
		if err != nil {
			return err
		}
		logger.Info().Str("addr", addr.String()).Msg("serving metrics")
	}

	ts, err := bootstrap.ConnectToolServer(ctx, args[0], cfg, m, logger)
	if err != nil {
		return err
	}
	defer ts.Close()
	completion, err := bootstrap.CompletionClient(cfg.LLM, m)
	if err != nil {
		return err
	}

	c, err := temporalclient.Dial(temporalHost, namespace, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	workflow.Register(w, activities.NewCompletionActivities(completion), activities.NewToolActivities(ts.Invoker))

	logger.Info().
		Str("version", version.String()).
		Str("task_queue", cfg.Temporal.TaskQueue).
		Int("tools", ts.Registry.ToolCount()).
		Msg("Starting worker")

	interrupt := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(interrupt)
	}()
	if err := w.Run(interrupt); err != nil {
		return fmt.Errorf("worker stopped: %w", err)
	}
	logger.Info().Msg("Worker stopped")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
