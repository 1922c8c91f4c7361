// Package bootstrap assembles the components shared by the client and the
// worker binaries from a loaded Config.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vinzlac/mcp-server-brave-test/internal/config"
	"github.com/vinzlac/mcp-server-brave-test/internal/intent"
	"github.com/vinzlac/mcp-server-brave-test/internal/llm"
	"github.com/vinzlac/mcp-server-brave-test/internal/mcp"
	"github.com/vinzlac/mcp-server-brave-test/internal/metrics"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
)

// SearchTool is the tool the weather fallback searches with.
const SearchTool = "search"

// ToolConn is a connected tool server. mcp.Connection implements it.
type ToolConn interface {
	tools.Lister
	tools.Transport
}

// ToolServer is a connected tool server with its registry and invoker.
type ToolServer struct {
	conn     *mcp.Connection
	Registry *tools.Registry
	Invoker  *tools.Invoker
}

// Close shuts the connection down.
func (t *ToolServer) Close() error {
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}

// ConnectToolServer launches the server named by script, loads its tools
// and builds the invoker. m may be nil.
func ConnectToolServer(ctx context.Context, script string, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) (*ToolServer, error) {
	transport, err := mcp.TransportForScript(script)
	if err != nil {
		return nil, err
	}
	conn, err := mcp.Connect(ctx, "tools", mcp.ServerConfig{
		Transport:      transport,
		StartupTimeout: cfg.Agent.StartupTimeout,
		ToolTimeout:    cfg.Agent.ToolTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	registry, invoker, err := NewInvoker(ctx, conn, m, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &ToolServer{conn: conn, Registry: registry, Invoker: invoker}, nil
}

// NewInvoker loads the registry from conn and installs the weather
// fallback. m may be nil.
func NewInvoker(ctx context.Context, conn ToolConn, m *metrics.Metrics, logger zerolog.Logger) (*tools.Registry, *tools.Invoker, error) {
	registry, err := tools.Load(ctx, conn, logger.With().Str("component", "registry").Logger())
	if err != nil {
		return nil, nil, err
	}
	opts := []tools.InvokerOption{
		tools.WithLogger(logger.With().Str("component", "invoker").Logger()),
	}
	if _, ok := registry.Lookup(SearchTool); ok {
		opts = append(opts, tools.WithFallback(intent.WeatherTool, tools.WeatherSearchFallback(SearchTool)))
	} else {
		logger.Warn().Msg("tool server has no search tool, weather fallback disabled")
	}
	if m != nil {
		opts = append(opts, tools.WithRecorder(m))
	}
	return registry, tools.NewInvoker(registry, conn, opts...), nil
}

// CompletionClient builds the configured completion client, instrumented
// when m is non-nil.
func CompletionClient(cfg config.LLMConfig, m *metrics.Metrics) (llm.LLMClient, error) {
	client, err := llm.NewLLMClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("completion client: %w", err)
	}
	if m == nil {
		return client, nil
	}
	return llm.NewInstrumentedClient(client, cfg.Provider, m), nil
}
