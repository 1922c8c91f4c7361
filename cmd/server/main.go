// Server executable: the MCP tool server (search, chat, weather) on stdio.
//
// Stdout carries the protocol; logs go to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/vinzlac/mcp-server-brave-test/internal/config"
	"github.com/vinzlac/mcp-server-brave-test/internal/llm"
	"github.com/vinzlac/mcp-server-brave-test/internal/logging"
	"github.com/vinzlac/mcp-server-brave-test/internal/search"
	"github.com/vinzlac/mcp-server-brave-test/internal/server"
	"github.com/vinzlac/mcp-server-brave-test/internal/version"
	"github.com/vinzlac/mcp-server-brave-test/internal/weather"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Run the search, chat and weather tools as an MCP server on stdio",
	Version:       version.String(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file with API keys")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel)

	if err := cfg.Require(config.CredentialSearch, config.CredentialCompletion); err != nil {
		return err
	}
	completion, err := llm.NewLLMClient(cfg.LLM)
	if err != nil {
		return err
	}
	deps := server.Deps{
		Search: search.NewBraveClient(cfg.Search.APIKey, cfg.Search.Endpoint, cfg.Search.Count, cfg.Search.Timeout),
		LLM:    completion,
		Model:  cfg.LLM.ModelConfig(),
		Logger: logger,
	}
	// The weather tool is optional; without a key the client falls back to search.
	if err := cfg.Require(config.CredentialWeather); err != nil {
		logger.Warn().Err(err).Msg("weather tool disabled")
	} else {
		deps.Weather = weather.NewOpenWeatherClient(cfg.Weather.APIKey, cfg.Weather.Endpoint, cfg.Weather.Timeout)
	}

	logger.Info().Str("version", version.String()).Msg("Brave Search Claude MCP Server running on stdio")
	if err := server.New(deps).Run(cmd.Context(), &gomcp.StdioTransport{}); err != nil && cmd.Context().Err() == nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal error:", err)
		os.Exit(1)
	}
}
