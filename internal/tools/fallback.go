package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/search"
	"github.com/vinzlac/mcp-server-brave-test/internal/weather"
)

// WeatherSearchFallback answers a failed weather call with web search links
// for "météo <city> <postalCode>", using searchTool on the same transport.
func WeatherSearchFallback(searchTool string) FallbackFunc {
	return func(ctx context.Context, call models.ToolCall, cause error, primary CallFunc) (models.ToolResult, error) {
		loc := weather.Location{
			City:       stringArg(call.Arguments, "city"),
			PostalCode: stringArg(call.Arguments, "postalCode"),
		}
		query := WeatherFallbackQuery(loc)
		res, err := primary(ctx, models.ToolCall{
			ID:        call.ID + "-fallback",
			Name:      searchTool,
			Arguments: map[string]any{"query": query},
		})
		if err != nil {
			return models.ToolResult{}, fmt.Errorf("fallback search %q: %w", query, err)
		}
		results, err := search.ParseResults(res.Text())
		if err != nil {
			return models.ToolResult{}, fmt.Errorf("fallback search %q: %w", query, err)
		}
		return models.TextResult(FormatDegradedWeather(loc, query, results)), nil
	}
}

// WeatherFallbackQuery builds the search query for a failed weather lookup.
func WeatherFallbackQuery(loc weather.Location) string {
	return strings.Join(strings.Fields(fmt.Sprintf("météo %s %s", loc.City, loc.PostalCode)), " ")
}

// FormatDegradedWeather renders search results in place of a weather report.
func FormatDegradedWeather(loc weather.Location, query string, results []models.SearchResult) string {
	var b strings.Builder
	place := loc.Label()
	if place == "" {
		place = "ce lieu"
	}
	fmt.Fprintf(&b, "Impossible d'obtenir la météo détaillée pour %s.\n", place)
	if len(results) == 0 {
		fmt.Fprintf(&b, "Aucun résultat de recherche pour « %s ».\n", query)
		return b.String()
	}
	b.WriteString("Voici quelques liens utiles :\n")
	for n, r := range results {
		fmt.Fprintf(&b, "\n%d. %s\n   %s\n", n+1, r.Title, r.URL)
		if r.Description != "" {
			fmt.Fprintf(&b, "   %s\n", r.Description)
		}
	}
	return b.String()
}

func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
