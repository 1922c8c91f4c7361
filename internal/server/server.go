// Package server exposes the search, chat and weather tools over MCP.
package server

import (
	"context"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/vinzlac/mcp-server-brave-test/internal/llm"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/search"
	"github.com/vinzlac/mcp-server-brave-test/internal/weather"
)

const (
	Name    = "brave-search-claude"
	Version = "1.0.0"
)

// Apology is the chat reply when the model produced no usable text.
const Apology = "I apologize, but I couldn't generate a proper response."

// Searcher is implemented by search.BraveClient.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]models.SearchResult, error)
}

// Forecaster is implemented by weather.OpenWeatherClient.
type Forecaster interface {
	Report(ctx context.Context, loc weather.Location) (weather.Report, error)
}

// Deps are the providers behind the tools. A nil provider leaves its tool
// unregistered.
type Deps struct {
	Search  Searcher
	Weather Forecaster
	LLM     llm.LLMClient
	Model   models.ModelConfig
	Logger  zerolog.Logger
}

type SearchInput struct {
	Query string `json:"query" jsonschema:"The search query"`
}

type ChatContext struct {
	SearchResults []models.SearchResult `json:"searchResults,omitempty" jsonschema:"Search results to answer from"`
}

type ChatInput struct {
	Message string       `json:"message" jsonschema:"The message to send to the model"`
	Context *ChatContext `json:"context,omitempty" jsonschema:"Optional context with search results"`
}

type WeatherInput struct {
	City       string `json:"city" jsonschema:"City name"`
	PostalCode string `json:"postalCode,omitempty" jsonschema:"French postal code, when known"`
}

type toolServer struct {
	deps   Deps
	logger zerolog.Logger
}

// New builds the MCP server. The caller runs it on a transport.
func New(deps Deps) *gomcp.Server {
	if deps.Model.Model == "" {
		deps.Model = models.DefaultModelConfig()
	}
	s := &toolServer{deps: deps, logger: deps.Logger.With().Str("component", "server").Logger()}
	server := gomcp.NewServer(&gomcp.Implementation{Name: Name, Version: Version}, nil)

	if deps.Search != nil {
		gomcp.AddTool(server, &gomcp.Tool{
			Name:        "search",
			Description: "Search the web using Brave Search",
		}, s.search)
	}
	if deps.LLM != nil {
		gomcp.AddTool(server, &gomcp.Tool{
			Name:        "chat",
			Description: "Chat with Claude about search results",
		}, s.chat)
	}
	if deps.Weather != nil {
		gomcp.AddTool(server, &gomcp.Tool{
			Name:        "weather",
			Description: "Current conditions and short forecast for a city",
		}, s.weather)
	}
	return server
}

func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{Content: []gomcp.Content{&gomcp.TextContent{Text: text}}}
}

func errorResult(format string, args ...any) *gomcp.CallToolResult {
	res := textResult(fmt.Sprintf(format, args...))
	res.IsError = true
	return res
}

func (s *toolServer) search(ctx context.Context, _ *gomcp.CallToolRequest, in SearchInput) (*gomcp.CallToolResult, any, error) {
	s.logger.Info().Str("query", in.Query).Msg("search")
	results, err := s.deps.Search.Search(ctx, in.Query, search.DefaultCount)
	if err != nil {
		s.logger.Error().Err(err).Str("query", in.Query).Msg("search failed")
		return errorResult("search failed: %v", err), nil, nil
	}
	text, err := search.FormatResults(results)
	if err != nil {
		return nil, nil, err
	}
	return textResult(text), nil, nil
}

// BuildChatPrompt renders the prompt sent for a chat call.
func BuildChatPrompt(message string, results []models.SearchResult) string {
	entries := make([]string, len(results))
	for i, r := range results {
		entries[i] = fmt.Sprintf("- %s\n  %s\n  %s", r.Title, r.Description, r.URL)
	}
	return fmt.Sprintf("Here are some search results about \"%s\":\n\n", message) +
		strings.Join(entries, "\n\n") +
		"\n\nPlease provide a comprehensive answer based on these results."
}

func (s *toolServer) chat(ctx context.Context, _ *gomcp.CallToolRequest, in ChatInput) (*gomcp.CallToolResult, any, error) {
	var results []models.SearchResult
	if in.Context != nil {
		results = in.Context.SearchResults
	}
	s.logger.Info().Int("search_results", len(results)).Msg("chat")

	resp, err := s.deps.LLM.Call(ctx, llm.LLMRequest{
		Messages:    []models.Message{models.UserText(BuildChatPrompt(in.Message, results))},
		ModelConfig: s.deps.Model,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("chat completion failed")
		return errorResult("chat failed: %v", err), nil, nil
	}
	if len(resp.Content) == 0 || resp.Content[0].Type != models.ContentTypeText || resp.Content[0].Text == "" {
		return textResult(Apology), nil, nil
	}
	return textResult(resp.Content[0].Text), nil, nil
}

func (s *toolServer) weather(ctx context.Context, _ *gomcp.CallToolRequest, in WeatherInput) (*gomcp.CallToolResult, any, error) {
	loc := weather.Location{City: in.City, PostalCode: in.PostalCode}
	logger := s.logger.With().Str("location", loc.Label()).Logger()
	logger.Info().Msg("weather")

	report, err := s.deps.Weather.Report(ctx, loc)
	if err != nil {
		logger.Error().Err(err).Msg("weather failed")
		return errorResult("weather unavailable for %s: %v", loc.Label(), err), nil, nil
	}
	return textResult(report.Text), nil, nil
}
