package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/vinzlac/mcp-server-brave-test/internal/httpclient"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/tools"
	"github.com/vinzlac/mcp-server-brave-test/internal/version"
)

// ClientName identifies this program to the tool server.
const ClientName = "mcp-client-cli"

// Connection is a live session with one tool server. It implements
// tools.Lister and tools.Transport.
type Connection struct {
	name    string
	session *gomcp.ClientSession
	config  ServerConfig
	filter  ToolFilter
	logger  zerolog.Logger
}

// Connect launches or dials the server described by cfg and completes the
// protocol handshake within the startup timeout. Failure is a
// ConnectionError.
func Connect(ctx context.Context, name string, cfg ServerConfig, logger zerolog.Logger) (*Connection, error) {
	client := gomcp.NewClient(&gomcp.Implementation{
		Name:    ClientName,
		Version: version.Version,
	}, nil)

	transport, err := newTransport(cfg.Transport)
	if err != nil {
		return nil, models.NewConnectionError(fmt.Sprintf("tool server %s", name), err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.GetStartupTimeout())
	defer cancel()

	session, err := client.Connect(connectCtx, transport, nil)
	if err != nil {
		return nil, models.NewConnectionError(fmt.Sprintf("failed to connect to tool server %s", name), err)
	}
	return NewConnection(name, session, cfg, logger), nil
}

// NewConnection wraps an already connected session.
func NewConnection(name string, session *gomcp.ClientSession, cfg ServerConfig, logger zerolog.Logger) *Connection {
	return &Connection{
		name:    name,
		session: session,
		config:  cfg,
		filter:  NewToolFilter(cfg.EnabledTools, cfg.DisabledTools),
		logger:  logger.With().Str("server", name).Logger(),
	}
}

func newTransport(cfg TransportConfig) (gomcp.Transport, error) {
	if cfg.IsStdio() {
		// The process must outlive the connect deadline, so it is not bound
		// to a context.
		cmd := exec.Command(cfg.Command, cfg.Args...)
		cmd.Dir = cfg.Cwd
		cmd.Env = os.Environ()
		for k, v := range cfg.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
		cmd.Stderr = os.Stderr
		return &gomcp.CommandTransport{Command: cmd}, nil
	}
	if cfg.IsHTTP() {
		return &gomcp.StreamableClientTransport{Endpoint: cfg.URL}, nil
	}
	return nil, errors.New("neither command nor URL configured")
}

// ListTools returns every allowed tool, following pagination, within the
// startup timeout.
func (c *Connection) ListTools(ctx context.Context) ([]tools.ToolSpec, error) {
	listCtx, cancel := context.WithTimeout(ctx, c.config.GetStartupTimeout())
	defer cancel()

	var specs []tools.ToolSpec
	params := &gomcp.ListToolsParams{}
	for {
		res, err := c.session.ListTools(listCtx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to list tools for %s: %w", c.name, err)
		}
		for _, t := range res.Tools {
			if !c.filter.Allows(t.Name) {
				c.logger.Debug().Str("tool", t.Name).Msg("tool filtered out")
				continue
			}
			specs = append(specs, tools.ToolSpec{
				Name:        t.Name,
				Description: t.Description,
				InputSchema: schemaMap(t.InputSchema),
			})
		}
		if res.NextCursor == "" {
			return specs, nil
		}
		params = &gomcp.ListToolsParams{Cursor: res.NextCursor}
	}
}

// schemaMap normalizes the tool's input schema to a plain JSON object.
func schemaMap(schema any) map[string]any {
	switch s := schema.(type) {
	case nil:
		return nil
	case map[string]any:
		return s
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// CallTool runs one tool within the per-call timeout. A deadline or network
// timeout is returned as a tools.TransientError. A result the server flags
// as an error is returned as-is with IsError set.
func (c *Connection) CallTool(ctx context.Context, name string, args map[string]any) (models.ToolResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.config.GetToolTimeout())
	defer cancel()

	res, err := c.session.CallTool(callCtx, &gomcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		err = fmt.Errorf("tool call %s/%s failed: %w", c.name, name, err)
		if httpclient.IsTimeout(err) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return models.ToolResult{}, tools.NewTransientError(err)
		}
		return models.ToolResult{}, err
	}
	return convertResult(res), nil
}

// convertResult keeps text content as-is and renders any other content
// kind as its JSON form.
func convertResult(res *gomcp.CallToolResult) models.ToolResult {
	out := models.ToolResult{IsError: res.IsError}
	for _, content := range res.Content {
		switch v := content.(type) {
		case *gomcp.TextContent:
			out.Content = append(out.Content, models.TextBlock(v.Text))
		default:
			data, err := json.Marshal(v)
			if err != nil {
				continue
			}
			out.Content = append(out.Content, models.TextBlock(string(data)))
		}
	}
	if len(out.Content) == 0 && res.StructuredContent != nil {
		if data, err := json.Marshal(res.StructuredContent); err == nil {
			out.Content = append(out.Content, models.TextBlock(string(data)))
		}
	}
	return out
}

// Close ends the session and, for stdio servers, the server process.
func (c *Connection) Close() error {
	if err := c.session.Close(); err != nil {
		c.logger.Warn().Err(err).Msg("error closing tool server session")
		return err
	}
	return nil
}
