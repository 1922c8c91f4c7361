// Package research runs the two-step flow of the research command: a web
// search, then a chat call that answers a question from the results.
package research

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/search"
)

const (
	SearchTool = "search"
	ChatTool   = "chat"
)

// Invoker is satisfied by tools.Invoker.
type Invoker interface {
	Invoke(ctx context.Context, call models.ToolCall) (models.ToolResult, error)
}

// Result is the outcome of Run.
type Result struct {
	Results []models.SearchResult
	Answer  string
}

// Run searches for query and asks question about the results.
func Run(ctx context.Context, inv Invoker, query, question string, logger zerolog.Logger) (Result, error) {
	logger.Info().Str("query", query).Msg("Performing search")
	res, err := inv.Invoke(ctx, models.ToolCall{
		ID:        "research-search",
		Name:      SearchTool,
		Arguments: map[string]any{"query": query},
	})
	if err != nil {
		return Result{}, err
	}
	results, err := search.ParseResults(res.Text())
	if err != nil {
		return Result{}, models.NewToolExecutionError(SearchTool, err)
	}
	logger.Info().Int("results", len(results)).Str("question", question).Msg("Asking about results")

	res, err = inv.Invoke(ctx, models.ToolCall{
		ID:   "research-chat",
		Name: ChatTool,
		Arguments: map[string]any{
			"message": question,
			"context": map[string]any{"searchResults": resultArgs(results)},
		},
	})
	if err != nil {
		return Result{Results: results}, err
	}
	return Result{Results: results, Answer: res.Text()}, nil
}

// resultArgs converts results to plain JSON values so the registry can
// validate them against the chat tool's schema.
func resultArgs(results []models.SearchResult) []any {
	out := make([]any, len(results))
	for i, r := range results {
		out[i] = map[string]any{
			"title":       r.Title,
			"url":         r.URL,
			"description": r.Description,
		}
	}
	return out
}

// Summary is the line printed after the search step.
func Summary(results []models.SearchResult) string {
	return fmt.Sprintf("%d résultats trouvés.", len(results))
}
