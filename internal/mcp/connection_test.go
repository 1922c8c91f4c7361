package mcp

import (
	"context"
	"testing"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
)

var objectSchema = map[string]any{
	"type":       "object",
	"properties": map[string]any{"query": map[string]any{"type": "string"}},
}

// startTestServer serves the given tools on an in-memory transport and
// returns a Connection to it.
func startTestServer(t *testing.T, ctx context.Context, cfg ServerConfig, opts *gomcp.ServerOptions, handlers map[string]gomcp.ToolHandler) *Connection {
	t.Helper()

	server := gomcp.NewServer(&gomcp.Implementation{Name: "test-server", Version: "1.0.0"}, opts)
	for name, handler := range handlers {
		server.AddTool(&gomcp.Tool{
			Name:        name,
			Description: "Test tool: " + name,
			InputSchema: objectSchema,
		}, handler)
	}

	serverTransport, clientTransport := gomcp.NewInMemoryTransports()
	go func() {
		_ = server.Run(ctx, serverTransport)
	}()

	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	conn := NewConnection("test", session, cfg, zerolog.Nop())
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func textHandler(text string) gomcp.ToolHandler {
	return func(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		return &gomcp.CallToolResult{Content: []gomcp.Content{&gomcp.TextContent{Text: text}}}, nil
	}
}

func TestConnection_ListToolsAppliesFilter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := startTestServer(t, ctx, ServerConfig{DisabledTools: []string{"chat"}}, nil, map[string]gomcp.ToolHandler{
		"search":  textHandler("s"),
		"weather": textHandler("w"),
		"chat":    textHandler("c"),
	})

	specs, err := conn.ListTools(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"search", "weather"}, names)
	assert.Equal(t, "object", specs[0].InputSchema["type"])
	assert.Contains(t, specs[0].Description, "Test tool")
}

func TestConnection_ListToolsFollowsPagination(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := startTestServer(t, ctx, ServerConfig{}, &gomcp.ServerOptions{PageSize: 1}, map[string]gomcp.ToolHandler{
		"a": textHandler("a"),
		"b": textHandler("b"),
		"c": textHandler("c"),
	})

	specs, err := conn.ListTools(ctx)
	require.NoError(t, err)
	assert.Len(t, specs, 3)
}

func TestConnection_CallToolText(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := startTestServer(t, ctx, ServerConfig{}, nil, map[string]gomcp.ToolHandler{
		"search": textHandler(`{"results":[]}`),
	})

	res, err := conn.CallTool(ctx, "search", map[string]any{"query": "go"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, `{"results":[]}`, res.Text())
}

func TestConnection_CallToolErrorResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := startTestServer(t, ctx, ServerConfig{}, nil, map[string]gomcp.ToolHandler{
		"weather": func(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
			return &gomcp.CallToolResult{
				Content: []gomcp.Content{&gomcp.TextContent{Text: "city not found"}},
				IsError: true,
			}, nil
		},
	})

	res, err := conn.CallTool(ctx, "weather", map[string]any{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "city not found", res.Text())
}

func TestConnection_CallToolTimeoutIsTransient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := startTestServer(t, ctx, ServerConfig{ToolTimeout: 50 * time.Millisecond}, nil, map[string]gomcp.ToolHandler{
		"slow": func(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
			select {
			case <-ctx.Done():
			case <-time.After(2 * time.Second):
			}
			return &gomcp.CallToolResult{}, nil
		},
	})

	_, err := conn.CallTool(ctx, "slow", map[string]any{})
	require.Error(t, err)
	assert.True(t, tools.IsTransientError(err))

	wrapped := models.NewToolExecutionError("slow", err)
	assert.True(t, wrapped.Retryable)
}

func TestConnection_RegistryLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := startTestServer(t, ctx, ServerConfig{}, nil, map[string]gomcp.ToolHandler{
		"search": textHandler("ok"),
	})

	reg, err := tools.Load(ctx, conn, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"search"}, reg.Names())
}

func TestConnect_NoTransportConfigured(t *testing.T) {
	_, err := Connect(context.Background(), "empty", ServerConfig{}, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindConnection))
}

func TestConnect_MissingBinary(t *testing.T) {
	cfg := ServerConfig{
		Transport:      TransportConfig{Command: "/nonexistent/tool-server"},
		StartupTimeout: time.Second,
	}
	_, err := Connect(context.Background(), "missing", cfg, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrorKindConnection))
}

func TestToolFilter(t *testing.T) {
	f := NewToolFilter([]string{"search", "weather"}, []string{"weather"})
	assert.True(t, f.Allows("search"))
	assert.False(t, f.Allows("weather"))
	assert.False(t, f.Allows("chat"))

	all := NewToolFilter(nil, nil)
	assert.True(t, all.Allows("anything"))
}

func TestServerConfig_Defaults(t *testing.T) {
	var cfg ServerConfig
	assert.Equal(t, DefaultStartupTimeout, cfg.GetStartupTimeout())
	assert.Equal(t, DefaultToolTimeout, cfg.GetToolTimeout())

	cfg.ToolTimeout = 5 * time.Second
	assert.Equal(t, 5*time.Second, cfg.GetToolTimeout())
}
